// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/autoluxe/internal/platform/phone"
)

/*
TestIsValid verifies Kenyan mobile numbers in local and international form.
*/
func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0712345678", true},
		{"+254712345678", true},
		{"254712345678", true},
		{"0712 345 678", true},
		{"12345", false},
		{"not a number", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.IsValid(tt.in))
		})
	}
}

/*
TestNormalizeE164 verifies formatting and the digits fallback.
*/
func TestNormalizeE164(t *testing.T) {
	assert.Equal(t, "+254712345678", phone.NormalizeE164("0712 345 678"))
	assert.Equal(t, "+254712345678", phone.NormalizeE164("+254712345678"))
	assert.Equal(t, "", phone.NormalizeE164("  "))

	// Too long for a Kenyan number: the trunk zero is still replaced.
	assert.Equal(t, "+2547605455312", phone.NormalizeE164("07605455312"))
}

/*
TestInternational verifies the bare digits used by chat deep links.
*/
func TestInternational(t *testing.T) {
	assert.Equal(t, "254712345678", phone.International("0712345678"))
	assert.Equal(t, "2547605455312", phone.International("076-054-55312"))
	assert.Equal(t, "254999", phone.International("254999"))
	assert.Equal(t, "", phone.International("n/a"))
}

/*
TestNational verifies the local display form.
*/
func TestNational(t *testing.T) {
	assert.Equal(t, "0712345678", phone.National("+254 712 345 678"))
	assert.Equal(t, "12345", phone.National("12345"))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN verifies the scheme rewrite expected by the pgx5 driver.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/autoluxe", "pgx5://u:p@localhost:5432/autoluxe"},
		{"postgresql://localhost/autoluxe", "pgx5://localhost/autoluxe"},
		{"pgx5://localhost/autoluxe", "pgx5://localhost/autoluxe"},
		{"host=localhost dbname=autoluxe", "host=localhost dbname=autoluxe"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/autoluxe/pkg/convert"
)

/*
TestToIntD verifies default fallback on empty or malformed input.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 3, convert.ToIntD("3", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
	assert.Equal(t, 1, convert.ToIntD("three", 1))
	assert.Equal(t, -2, convert.ToIntD(" -2 ", 1))
}

/*
TestToFloat64D verifies default fallback for floats.
*/
func TestToFloat64D(t *testing.T) {
	assert.InDelta(t, 0.25, convert.ToFloat64D("0.25", 0), 1e-9)
	assert.InDelta(t, 0.5, convert.ToFloat64D("half", 0.5), 1e-9)
}

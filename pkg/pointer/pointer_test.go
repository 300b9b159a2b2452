// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/autoluxe/pkg/pointer"
)

/*
TestFallback verifies nil and non-nil dereferencing.
*/
func TestFallback(t *testing.T) {
	assert.Equal(t, 4, pointer.Fallback[int](nil, 4))
	assert.Equal(t, 0, pointer.Fallback(pointer.To(0), 4))
}

/*
TestClone verifies that the copy is independent of the original.
*/
func TestClone(t *testing.T) {
	assert.Nil(t, pointer.Clone[int](nil))

	original := pointer.To(5)
	clone := pointer.Clone(original)
	*clone = 2
	assert.Equal(t, 5, *original)
}

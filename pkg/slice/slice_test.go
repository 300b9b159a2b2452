// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/autoluxe/pkg/slice"
)

/*
TestFilter verifies predicate filtering and the non-nil empty result.
*/
func TestFilter(t *testing.T) {
	input := []int{1, 2, 3, 4}

	assert.Equal(t, []int{2, 4}, slice.Filter(input, func(n int) bool { return n%2 == 0 }))
	assert.Equal(t, []int{}, slice.Filter(input, func(n int) bool { return n > 10 }))
	assert.Nil(t, slice.Filter[int](nil, func(int) bool { return true }))
	assert.Equal(t, []int{1, 2, 3, 4}, input, "input must not be mutated")
}

/*
TestUniqueBy verifies first-wins de-duplication under a key function.
*/
func TestUniqueBy(t *testing.T) {
	input := []string{"Toyota", "BMW", "TOYOTA", "bmw", "Audi"}
	got := slice.UniqueBy(input, strings.ToLower)
	assert.Equal(t, []string{"Toyota", "BMW", "Audi"}, got)
}

/*
TestPushFront verifies most-recent-first ordering, de-duplication and capping.
*/
func TestPushFront(t *testing.T) {
	same := func(a, b string) bool { return a == b }

	list := []string{"a", "b", "c"}
	assert.Equal(t, []string{"b", "a", "c"}, slice.PushFront(list, "b", 10, same))
	assert.Equal(t, []string{"d", "a"}, slice.PushFront(list, "d", 2, same))
	assert.Equal(t, []string{"a", "b", "c"}, list)
}

/*
TestTake checks bounds handling.
*/
func TestTake(t *testing.T) {
	assert.Equal(t, []int{1, 2}, slice.Take([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, slice.Take([]int{1}, 5))
	assert.Equal(t, []int{}, slice.Take([]int{1}, -1))
}

/*
TestMapReduce verifies the transformation helpers.
*/
func TestMapReduce(t *testing.T) {
	lengths := slice.Map([]string{"a", "bb"}, func(s string) int { return len(s) })
	assert.Equal(t, []int{1, 2}, lengths)
	assert.Equal(t, 3, slice.Reduce(lengths, 0, func(acc, n int) int { return acc + n }))
}

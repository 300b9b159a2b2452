// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package by providing functional
programming utilities (Map, Filter, UniqueBy) leveraging generics.

None of the helpers mutate their input; every result is a fresh slice.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements where the predicate evaluates to true, in input order.
//
// A non-nil input always yields a non-nil result so JSON renders "[]" rather than "null".
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Reduce reduces a slice into a single accumulated result using the reducer function.
func Reduce[T any, U any](input []T, initial U, reducer func(accumulator U, current T) U) U {
	result := initial
	for _, v := range input {
		result = reducer(result, v)
	}
	return result
}

// UniqueBy keeps the first element for every distinct key, preserving input order.
func UniqueBy[T any, K comparable](input []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Take returns at most n leading elements as a new slice.
func Take[T any](input []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(input) {
		n = len(input)
	}
	result := make([]T, n)
	copy(result, input[:n])
	return result
}

// PushFront returns a most-recent-first list with item at the head, any earlier
// occurrence (per same) removed, and the length capped at limit.
func PushFront[T any](input []T, item T, limit int, same func(a, b T) bool) []T {
	result := make([]T, 0, len(input)+1)
	result = append(result, item)
	for _, v := range input {
		if same(v, item) {
			continue
		}
		result = append(result, v)
	}
	return Take(result, limit)
}

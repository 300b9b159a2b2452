// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// # Sort Engine

/*
Sort returns a new slice ordered by key. The input is never modified.

Description: Every ordering is stable, so ties keep input order and sorting an
already sorted list by the same key is the identity. Mileage compares the digits
of the mileage string; listings without digits sort last. Unknown keys use
[SortFeatured].

Parameters:
  - vehicles: []Vehicle
  - key: SortKey

Returns:
  - []Vehicle: A sorted copy
*/
func Sort(vehicles []Vehicle, key SortKey) []Vehicle {
	out := slices.Clone(vehicles)
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key SortKey) func(a, b Vehicle) int {
	switch key {
	case SortPriceLow:
		return func(a, b Vehicle) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b Vehicle) int { return cmp.Compare(b.Price, a.Price) }
	case SortYearNew:
		return func(a, b Vehicle) int { return cmp.Compare(b.Year, a.Year) }
	case SortYearOld:
		return func(a, b Vehicle) int { return cmp.Compare(a.Year, b.Year) }
	case SortMileageLow:
		return compareMileage
	default:
		return compareFeatured
	}
}

// compareFeatured puts featured listings first, then newest CreatedAt.
func compareFeatured(a, b Vehicle) int {
	if a.IsFeatured != b.IsFeatured {
		if a.IsFeatured {
			return -1
		}
		return 1
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

func compareMileage(a, b Vehicle) int {
	ma, okA := MileageValue(a.Mileage)
	mb, okB := MileageValue(b.Mileage)

	switch {
	case okA && okB:
		return cmp.Compare(ma, mb)
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

// MileageValue extracts the digits of a mileage string ("34,500 km" is 34500).
//
// ok is false when the string has no digits or the value overflows.
func MileageValue(mileage string) (value int64, ok bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, mileage)

	if digits == "" {
		return 0, false
	}

	parsed, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

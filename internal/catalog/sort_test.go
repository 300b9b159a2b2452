// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/autoluxe/internal/catalog"
)

/*
TestSort_Orderings verifies each key against its comparison.
*/
func TestSort_Orderings(t *testing.T) {
	all := loadStore(t).All()

	tests := []struct {
		key      catalog.SortKey
		inOrder  func(a, b catalog.Vehicle) bool
		wantHead string
	}{
		{catalog.SortPriceLow, func(a, b catalog.Vehicle) bool { return a.Price <= b.Price }, "TOYOTA-FIELDER-2019-001"},
		{catalog.SortPriceHigh, func(a, b catalog.Vehicle) bool { return a.Price >= b.Price }, "MERCEDES-G63-2021-001"},
		{catalog.SortYearNew, func(a, b catalog.Vehicle) bool { return a.Year >= b.Year }, "BMW-M3-2023-001"},
		{catalog.SortYearOld, func(a, b catalog.Vehicle) bool { return a.Year <= b.Year }, "TOYOTA-FIELDER-2019-001"},
		{catalog.SortMileageLow, func(a, b catalog.Vehicle) bool {
			ma, _ := catalog.MileageValue(a.Mileage)
			mb, _ := catalog.MileageValue(b.Mileage)
			return ma <= mb
		}, "MERCEDES-S450-2023-001"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			sorted := catalog.Sort(all, tt.key)
			assert.Len(t, sorted, len(all))
			assert.Equal(t, tt.wantHead, sorted[0].ID)

			for i := 1; i < len(sorted); i++ {
				assert.True(t, tt.inOrder(sorted[i-1], sorted[i]), "%s before %s", sorted[i-1].ID, sorted[i].ID)
			}
		})
	}
}

/*
TestSort_Featured verifies featured first, newest first, and the stable tie-break.
*/
func TestSort_Featured(t *testing.T) {
	sorted := catalog.Sort(loadStore(t).All(), catalog.SortFeatured)

	assert.Equal(t, []string{
		"TOYOTA-FIELDER-2019-001",
		"RANGE-VELAR-2022-001",
		"MERCEDES-S450-2023-001",
		"PORSCHE-CAYENNE-2022-001",
		"TOYOTA-LC300-2023-001",
		"BMW-M3-2023-001",
		"MERCEDES-GLE-2022-001",
		"AUDI-Q7-2022-001",
		"FORD-RAPTOR-2023-001",
	}, ids(sorted[:9]))

	// Equal keys keep input order.
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first, second := listing("FIRST", "BMW", 1), listing("SECOND", "BMW", 1)
	first.CreatedAt, second.CreatedAt = day, day
	assert.Equal(t, []string{"FIRST", "SECOND"}, ids(catalog.Sort([]catalog.Vehicle{first, second}, catalog.SortFeatured)))
}

/*
TestSort_Stability verifies that re-sorting a sorted list by the same key is the identity.
*/
func TestSort_Stability(t *testing.T) {
	all := loadStore(t).All()

	for _, key := range catalog.SortKeys() {
		once := catalog.Sort(all, key)
		assert.Equal(t, ids(once), ids(catalog.Sort(once, key)), "key %s", key)
	}
}

/*
TestSort_DoesNotMutateInput verifies purity.
*/
func TestSort_DoesNotMutateInput(t *testing.T) {
	all := loadStore(t).All()
	before := slices.Clone(ids(all))

	_ = catalog.Sort(all, catalog.SortPriceHigh)
	assert.Equal(t, before, ids(all))
}

/*
TestSort_MileageWithoutDigitsLast verifies the placement of unparseable mileage.
*/
func TestSort_MileageWithoutDigitsLast(t *testing.T) {
	unknown := listing("UNKNOWN", "Ford", 1)
	unknown.Mileage = "Not stated"
	low := listing("LOW", "Ford", 1)
	low.Mileage = "5,000 km"
	high := listing("HIGH", "Ford", 1)
	high.Mileage = "120000km"

	got := catalog.Sort([]catalog.Vehicle{unknown, high, low}, catalog.SortMileageLow)
	assert.Equal(t, []string{"LOW", "HIGH", "UNKNOWN"}, ids(got))
}

/*
TestMileageValue verifies digit extraction.
*/
func TestMileageValue(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"34,500 km", 34500, true},
		{"8,900 km", 8900, true},
		{"0 km", 0, true},
		{"brand new", 0, false},
		{"", 0, false},
		{"99999999999999999999 km", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := catalog.MileageValue(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestParseSortKey verifies the fallback for unknown keys.
*/
func TestParseSortKey(t *testing.T) {
	assert.Equal(t, catalog.SortPriceLow, catalog.ParseSortKey(" PRICE-LOW "))
	assert.Equal(t, catalog.SortFeatured, catalog.ParseSortKey("cheapest"))
	assert.Equal(t, catalog.SortFeatured, catalog.ParseSortKey(""))
}

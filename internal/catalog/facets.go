// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"cmp"
	"slices"

	"github.com/taibuivan/autoluxe/pkg/slice"
	"github.com/taibuivan/autoluxe/pkg/slug"
)

// # Facets

// BrandFacet is one entry of the brand filter list.
type BrandFacet struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"` // Anchor for the brand section of the landing page
	Count int    `json:"count"`
}

// Facets are the filter options available for a vehicle list.
type Facets struct {
	Brands        []BrandFacet `json:"brands"`
	Locations     []string     `json:"locations"`
	Years         []int        `json:"years"` // Newest first
	Features      []string     `json:"features"`
	BodyTypes     []string     `json:"body_types"`
	FuelTypes     []string     `json:"fuel_types"`
	Transmissions []string     `json:"transmissions"`
	MinPrice      int64        `json:"min_price"`
	MaxPrice      int64        `json:"max_price"`
	MinYear       int          `json:"min_year"`
	MaxYear       int          `json:"max_year"`
}

/*
BuildFacets extracts the distinct filter values from vehicles.

Description: Values are de-duplicated case-insensitively keeping the first
spelling seen in catalog order, then sorted alphabetically. Years are sorted
newest first. Bounds are zero for an empty input.

Parameters:
  - vehicles: []Vehicle

Returns:
  - Facets
*/
func BuildFacets(vehicles []Vehicle) Facets {
	facets := Facets{
		Locations:     distinct(vehicles, func(v Vehicle) []string { return []string{v.Location} }),
		Features:      distinct(vehicles, func(v Vehicle) []string { return v.Features }),
		BodyTypes:     distinct(vehicles, func(v Vehicle) []string { return []string{v.BodyType} }),
		FuelTypes:     distinct(vehicles, func(v Vehicle) []string { return []string{v.FuelType} }),
		Transmissions: distinct(vehicles, func(v Vehicle) []string { return []string{v.Transmission} }),
	}

	// Brands keep counts under the folded key
	counts := make(map[string]int)
	for _, v := range vehicles {
		counts[fold(v.Brand)]++
	}
	for _, name := range distinct(vehicles, func(v Vehicle) []string { return []string{v.Brand} }) {
		facets.Brands = append(facets.Brands, BrandFacet{
			Name:  name,
			Slug:  slug.From(name),
			Count: counts[fold(name)],
		})
	}

	years := slice.UniqueBy(slice.Map(vehicles, func(v Vehicle) int { return v.Year }), func(y int) int { return y })
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })
	facets.Years = years

	if len(vehicles) == 0 {
		return facets
	}

	facets.MinPrice, facets.MaxPrice = vehicles[0].Price, vehicles[0].Price
	facets.MinYear, facets.MaxYear = vehicles[0].Year, vehicles[0].Year
	for _, v := range vehicles[1:] {
		facets.MinPrice = min(facets.MinPrice, v.Price)
		facets.MaxPrice = max(facets.MaxPrice, v.Price)
		facets.MinYear = min(facets.MinYear, v.Year)
		facets.MaxYear = max(facets.MaxYear, v.Year)
	}

	return facets
}

// Featured returns up to limit featured vehicles in catalog order.
func Featured(vehicles []Vehicle, limit int) []Vehicle {
	return slice.Take(slice.Filter(vehicles, func(v Vehicle) bool { return v.IsFeatured }), limit)
}

// ByBrand returns the vehicles of one brand, ignoring case.
func ByBrand(vehicles []Vehicle, brand string) []Vehicle {
	want := fold(brand)
	return slice.Filter(vehicles, func(v Vehicle) bool { return fold(v.Brand) == want })
}

// distinct collects non-blank values case-insensitively, first spelling wins, sorted by folded value.
func distinct(vehicles []Vehicle, values func(Vehicle) []string) []string {
	var all []string
	for _, v := range vehicles {
		all = append(all, cleanSet(values(v))...)
	}

	unique := slice.UniqueBy(all, fold)
	slices.SortStableFunc(unique, func(a, b string) int { return cmp.Compare(fold(a), fold(b)) })
	return unique
}

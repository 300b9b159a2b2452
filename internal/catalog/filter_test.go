// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/autoluxe/internal/catalog"
)

// criteriaSamples are realistic visitor selections across several axes.
func criteriaSamples() []catalog.Criteria {
	withPrice := catalog.DefaultCriteria()
	withPrice.MinPrice, withPrice.MaxPrice = 15_000_000, 30_000_000

	mixed := catalog.DefaultCriteria()
	mixed.Brands = []string{"Toyota", "Mercedes"}
	mixed.FuelTypes = []string{"Diesel", "Petrol"}
	mixed.MinYear = 2022
	mixed.Features = []string{"Sunroof"}

	everything := catalog.DefaultCriteria()
	everything.MinPrice, everything.MaxPrice = 10_000_000, 40_000_000
	everything.MinYear, everything.MaxYear = 2021, 2023
	everything.Brands = []string{"BMW", "Audi", "Toyota"}
	everything.Transmissions = []string{"Automatic"}
	everything.FuelTypes = []string{"Petrol"}
	everything.BodyTypes = []string{"Sedan", "SUV"}
	everything.Features = []string{"Leather Seats", "Apple CarPlay"}
	everything.Location = "Nairobi"
	everything.Search = "a"

	return []catalog.Criteria{catalog.DefaultCriteria(), withPrice, mixed, everything}
}

/*
TestFilter_DefaultReturnsEverything verifies that empty criteria keep the catalog as is.
*/
func TestFilter_DefaultReturnsEverything(t *testing.T) {
	all := loadStore(t).All()
	assert.Equal(t, all, catalog.Filter(all, catalog.DefaultCriteria()))
}

/*
TestFilter_Idempotent verifies filter(filter(x, c), c) == filter(x, c).
*/
func TestFilter_Idempotent(t *testing.T) {
	all := loadStore(t).All()

	for i, criteria := range criteriaSamples() {
		once := catalog.Filter(all, criteria)
		twice := catalog.Filter(once, criteria)
		assert.Equal(t, ids(once), ids(twice), "sample %d", i)
	}
}

/*
TestFilter_AxisIndependence verifies that relaxing any single axis never shrinks the result.
*/
func TestFilter_AxisIndependence(t *testing.T) {
	all := loadStore(t).All()
	defaults := catalog.DefaultCriteria()

	relax := map[string]func(c *catalog.Criteria){
		"price":        func(c *catalog.Criteria) { c.MinPrice, c.MaxPrice = defaults.MinPrice, defaults.MaxPrice },
		"year":         func(c *catalog.Criteria) { c.MinYear, c.MaxYear = defaults.MinYear, defaults.MaxYear },
		"brands":       func(c *catalog.Criteria) { c.Brands = nil },
		"transmission": func(c *catalog.Criteria) { c.Transmissions = nil },
		"fuel":         func(c *catalog.Criteria) { c.FuelTypes = nil },
		"body":         func(c *catalog.Criteria) { c.BodyTypes = nil },
		"features":     func(c *catalog.Criteria) { c.Features = nil },
		"location":     func(c *catalog.Criteria) { c.Location = catalog.LocationAll },
		"search":       func(c *catalog.Criteria) { c.Search = "" },
	}

	for i, criteria := range criteriaSamples() {
		strict := ids(catalog.Filter(all, criteria))

		for axis, reset := range relax {
			relaxed := criteria
			reset(&relaxed)
			loose := ids(catalog.Filter(all, relaxed))
			assert.Subset(t, loose, strict, "sample %d axis %s", i, axis)
		}
	}
}

/*
TestFilter_FeatureConjunction verifies that every selected feature must be present.
*/
func TestFilter_FeatureConjunction(t *testing.T) {
	onlySunroof := listing("ONE", "BMW", 1_000_000)
	onlySunroof.Features = []string{"Sunroof", "Navigation"}

	both := listing("BOTH", "BMW", 1_000_000)
	both.Features = []string{"Navigation", "Leather Seats", "Camera", "Sunroof"}

	criteria := catalog.DefaultCriteria()
	criteria.Features = []string{"Sunroof", "Leather Seats"}

	got := catalog.Filter([]catalog.Vehicle{onlySunroof, both}, criteria)
	assert.Equal(t, []string{"BOTH"}, ids(got))

	assert.False(t, catalog.Matches(onlySunroof, criteria))
	assert.True(t, catalog.Matches(both, criteria))
}

/*
TestFilter_SetAxesAreDisjunctive verifies OR within brand, transmission, fuel and body axes.
*/
func TestFilter_SetAxesAreDisjunctive(t *testing.T) {
	all := loadStore(t).All()

	criteria := catalog.DefaultCriteria()
	criteria.BodyTypes = []string{"Truck", "Convertible"}

	got := catalog.Filter(all, criteria)
	assert.ElementsMatch(t, []string{"TOYOTA-HILUX-2023-001", "PORSCHE-911-2020-001", "FORD-RAPTOR-2023-001"}, ids(got))
}

/*
TestFilter_PriceAndBrand is the 15M to 25M BMW scenario.
*/
func TestFilter_PriceAndBrand(t *testing.T) {
	vehicles := []catalog.Vehicle{
		listing("TOYOTA-1", "Toyota", 1_200_000),
		listing("BMW-1", "BMW", 16_500_000),
		listing("AUDI-1", "Audi", 22_500_000),
		listing("MERC-1", "Mercedes", 28_500_000),
	}

	criteria := catalog.DefaultCriteria()
	criteria.MinPrice, criteria.MaxPrice = 15_000_000, 25_000_000
	criteria.Brands = []string{"BMW"}

	assert.Equal(t, []string{"BMW-1"}, ids(catalog.Filter(vehicles, criteria)))
}

/*
TestFilter_BoundsAreInclusive verifies both ends of the price and year ranges.
*/
func TestFilter_BoundsAreInclusive(t *testing.T) {
	vehicle := listing("EDGE", "BMW", 16_500_000)

	criteria := catalog.DefaultCriteria()
	criteria.MinPrice, criteria.MaxPrice = 16_500_000, 16_500_000
	criteria.MinYear, criteria.MaxYear = 2022, 2022

	assert.True(t, catalog.Matches(vehicle, criteria))
}

/*
TestFilter_BrandIgnoresCase verifies that "TOYOTA" and "Toyota" are one brand.
*/
func TestFilter_BrandIgnoresCase(t *testing.T) {
	all := loadStore(t).All()

	criteria := catalog.DefaultCriteria()
	criteria.Brands = []string{"toyota"}

	got := catalog.Filter(all, criteria)
	assert.Equal(t, []string{
		"TOYOTA-FIELDER-2019-001",
		"TOYOTA-LC300-2023-001",
		"TOYOTA-PRADO-2022-001",
		"TOYOTA-HILUX-2023-001",
	}, ids(got))
}

/*
TestFilter_Location verifies the sentinel and case-insensitive equality.
*/
func TestFilter_Location(t *testing.T) {
	all := loadStore(t).All()

	criteria := catalog.DefaultCriteria()
	criteria.Location = "mombasa"

	assert.Equal(t, []string{
		"BMW-730-2021-001",
		"TOYOTA-PRADO-2022-001",
		"RANGE-SPORT-2021-001",
	}, ids(catalog.Filter(all, criteria)))

	criteria.Location = catalog.LocationAll
	assert.Len(t, catalog.Filter(all, criteria), len(all))
}

/*
TestFilter_DoesNotMutateInput verifies purity.
*/
func TestFilter_DoesNotMutateInput(t *testing.T) {
	all := loadStore(t).All()
	before := ids(all)

	criteria := catalog.DefaultCriteria()
	criteria.Brands = []string{"Porsche"}
	_ = catalog.Filter(all, criteria)

	assert.Equal(t, before, ids(all))
}

// # Search

/*
TestSearch verifies the substring predicate across the searchable fields.
*/
func TestSearch(t *testing.T) {
	all := loadStore(t).All()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"model_case_insensitive", "land cruiser", []string{"TOYOTA-LC300-2023-001"}},
		{"make", "PORSCHE", []string{"PORSCHE-CAYENNE-2022-001", "PORSCHE-911-2020-001"}},
		{"feature", "kdss", []string{"TOYOTA-LC300-2023-001", "TOYOTA-PRADO-2022-001"}},
		{"location", "eldoret", []string{"TOYOTA-HILUX-2023-001"}},
		{"no_match", "lamborghini", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(catalog.Search(all, tt.query)))
		})
	}
}

/*
TestSearch_YearSubstring verifies the deliberately loose year match.
*/
func TestSearch_YearSubstring(t *testing.T) {
	old := listing("OLD", "Ford", 1)
	old.Year = 1922
	old.Description = "Classic"

	recent := listing("NEW", "Ford", 1)
	recent.Year = 2023
	recent.Description = "Modern"

	other := listing("OTHER", "Ford", 1)
	other.Year = 2019

	got := catalog.Search([]catalog.Vehicle{old, recent, other}, "22")
	assert.Equal(t, []string{"OLD"}, ids(got))

	other.Year = 2022
	got = catalog.Search([]catalog.Vehicle{old, recent, other}, "22")
	assert.Equal(t, []string{"OLD", "OTHER"}, ids(got))
}

/*
TestSearch_BlankQuery verifies that whitespace is treated as no query.
*/
func TestSearch_BlankQuery(t *testing.T) {
	all := loadStore(t).All()
	assert.Len(t, catalog.Search(all, "   "), len(all))

	criteria := catalog.DefaultCriteria()
	criteria.Search = " \t "
	assert.Len(t, catalog.Filter(all, criteria), len(all))
}

// # Suggestions

/*
TestSuggestions verifies grouping, caps and the fallback entry.
*/
func TestSuggestions(t *testing.T) {
	all := loadStore(t).All()

	t.Run("blank_returns_popular", func(t *testing.T) {
		assert.Equal(t, catalog.PopularSuggestions(), catalog.Suggestions(all, " "))
	})

	t.Run("brand_and_models", func(t *testing.T) {
		got := catalog.Suggestions(all, "bmw")
		require.NotEmpty(t, got)
		assert.Equal(t, catalog.Suggestion{Text: "BMW", Type: catalog.SuggestionBrand, Action: catalog.ActionFilter, Value: "BMW"}, got[0])
		assert.Equal(t, "BMW M3 Competition", got[1].Text)
		assert.Equal(t, catalog.SuggestionModel, got[1].Type)
	})

	t.Run("year", func(t *testing.T) {
		got := catalog.Suggestions(all, "2022")
		require.NotEmpty(t, got)
		assert.Equal(t, "Cars from 2022", got[0].Text)
	})

	t.Run("feature_cap", func(t *testing.T) {
		var features int
		for _, s := range catalog.Suggestions(all, "seats") {
			if s.Type == catalog.SuggestionFeature {
				features++
			}
		}
		assert.Equal(t, 2, features)
	})

	t.Run("fallback", func(t *testing.T) {
		got := catalog.Suggestions(all, "zzz")
		require.Len(t, got, 1)
		assert.Equal(t, catalog.SuggestionSearch, got[0].Type)
		assert.Equal(t, `Search for "zzz"`, got[0].Text)
	})
}

// # Facets

/*
TestBuildFacets verifies de-duplication, ordering and bounds.
*/
func TestBuildFacets(t *testing.T) {
	facets := catalog.BuildFacets(loadStore(t).All())

	names := make([]string, len(facets.Brands))
	for i, brand := range facets.Brands {
		names[i] = brand.Name
	}
	assert.Equal(t, []string{"Audi", "BMW", "Ford", "Mercedes", "Nissan", "Porsche", "Range Rover", "TOYOTA"}, names)

	last := facets.Brands[len(facets.Brands)-1]
	assert.Equal(t, 4, last.Count, "TOYOTA and Toyota count together")
	assert.Equal(t, "range-rover", facets.Brands[6].Slug)

	assert.Equal(t, []string{"Eldoret", "Kisumu", "Mombasa", "Nairobi", "Nakuru"}, facets.Locations)
	assert.Equal(t, []int{2023, 2022, 2021, 2020, 2019}, facets.Years)
	assert.Equal(t, int64(1_685_000), facets.MinPrice)
	assert.Equal(t, int64(38_500_000), facets.MaxPrice)
	assert.Equal(t, 2019, facets.MinYear)
	assert.Equal(t, 2023, facets.MaxYear)
	assert.Contains(t, facets.Features, "B&O Sound")
}

/*
TestFeaturedAndByBrand verifies the landing page sections.
*/
func TestFeaturedAndByBrand(t *testing.T) {
	all := loadStore(t).All()

	assert.Equal(t, []string{"TOYOTA-FIELDER-2019-001", "BMW-M3-2023-001", "MERCEDES-GLE-2022-001"}, ids(catalog.Featured(all, 3)))
	assert.Equal(t, []string{"AUDI-Q7-2022-001", "AUDI-A6-2021-001"}, ids(catalog.ByBrand(all, "AUDI")))
	assert.Empty(t, catalog.ByBrand(all, "Lada"))
}

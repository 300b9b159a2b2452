// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog holds the showroom inventory and the pure pipeline that turns it
into what a visitor sees.

Core Responsibility:

  - Store: The immutable vehicle list loaded once at startup, with lookup by ID.
  - Filter: Conjunctive criteria across independent axes plus free-text search.
  - Sort: Stable orderings with numeric extraction for mileage.
  - Query State: Round-trips criteria to shareable URL query parameters.

Every function in this package is side-effect free and never mutates its input
slices. Stateful concerns (current page, open detail view) live in the session.
*/
package catalog

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/autoluxe/pkg/pointer"
)

// # Domain Enums

// SortKey selects one of the supported inventory orderings.
type SortKey string

const (
	// SortFeatured lists featured vehicles first, then the newest listings.
	SortFeatured SortKey = "featured"

	// SortPriceLow orders by price ascending.
	SortPriceLow SortKey = "price-low"

	// SortPriceHigh orders by price descending.
	SortPriceHigh SortKey = "price-high"

	// SortYearNew orders by model year descending.
	SortYearNew SortKey = "year-new"

	// SortYearOld orders by model year ascending.
	SortYearOld SortKey = "year-old"

	// SortMileageLow orders by the digits of the mileage string ascending.
	SortMileageLow SortKey = "mileage-low"
)

// IsValid reports whether k is a recognised [SortKey] value.
func (k SortKey) IsValid() bool {
	switch k {
	case
		SortFeatured,
		SortPriceLow,
		SortPriceHigh,
		SortYearNew,
		SortYearOld,
		SortMileageLow:
		return true
	}
	return false
}

// ParseSortKey maps raw input to a [SortKey], falling back to [SortFeatured].
func ParseSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if !key.IsValid() {
		return SortFeatured
	}
	return key
}

// SortKeys lists every ordering in display order.
func SortKeys() []SortKey {
	return []SortKey{SortFeatured, SortPriceLow, SortPriceHigh, SortYearNew, SortYearOld, SortMileageLow}
}

// # Core Entities

// Vehicle is a single listing in the showroom inventory.
//
// Doors and Seats are nil when the listing does not state them. Brand is authored
// independently of Make and is compared case-insensitively.
type Vehicle struct {
	ID           string    `json:"id" yaml:"id"`
	Make         string    `json:"make" yaml:"make"`
	Model        string    `json:"model" yaml:"model"`
	Year         int       `json:"year" yaml:"year"`
	Price        int64     `json:"price" yaml:"price"`     // Whole Kenyan shillings
	Mileage      string    `json:"mileage" yaml:"mileage"` // Free-form, e.g. "34,500 km"
	FuelType     string    `json:"fuel_type" yaml:"fuelType"`
	Transmission string    `json:"transmission" yaml:"transmission"`
	Engine       string    `json:"engine" yaml:"engine"`
	Power        string    `json:"power" yaml:"power"`
	Torque       string    `json:"torque" yaml:"torque"`
	Doors        *int      `json:"doors" yaml:"doors"`
	Seats        *int      `json:"seats" yaml:"seats"`
	Color        string    `json:"color" yaml:"color"`
	Location     string    `json:"location" yaml:"location"`
	Images       []string  `json:"images" yaml:"images"` // First entry is the primary image
	Description  string    `json:"description" yaml:"description"`
	Features     []string  `json:"features" yaml:"features"`
	Contact      string    `json:"contact" yaml:"contact"`
	Brand        string    `json:"brand" yaml:"brand"`
	BodyType     string    `json:"body_type" yaml:"bodyType"`
	IsFeatured   bool      `json:"is_featured" yaml:"isFeatured"`
	IsHotDeal    bool      `json:"is_hot_deal" yaml:"isHotDeal"`
	IsCertified  bool      `json:"is_certified" yaml:"isCertified"`
	IsFinancing  bool      `json:"is_financing" yaml:"isFinancing"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// Title is the "year make model" heading used in listings and messages.
func (v Vehicle) Title() string {
	return strings.Join([]string{strconv.Itoa(v.Year), v.Make, v.Model}, " ")
}

// Clone returns a copy that shares no slices or pointers with v.
func (v Vehicle) Clone() Vehicle {
	v.Images = slices.Clone(v.Images)
	v.Features = slices.Clone(v.Features)
	v.Doors = pointer.Clone(v.Doors)
	v.Seats = pointer.Clone(v.Seats)
	return v
}

// PrimaryImage returns the first image reference.
func (v Vehicle) PrimaryImage() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}

// HasFeature reports whether the listing carries the feature tag, ignoring case.
func (v Vehicle) HasFeature(feature string) bool {
	want := fold(feature)
	for _, f := range v.Features {
		if fold(f) == want {
			return true
		}
	}
	return false
}

// # Search & Filtering

const (
	// LocationAll is the location sentinel that imposes no restriction.
	LocationAll = "all"

	// MaxPriceBound is the unrestricted upper price bound.
	MaxPriceBound int64 = math.MaxInt64

	// MaxYearBound is the unrestricted upper year bound.
	MaxYearBound = 9999
)

// Criteria is the visitor's current set of constraints.
//
// Axes combine with AND. Within the brand, transmission, fuel type and body type
// axes any selected value matches (OR). Features require every selected tag (AND).
// An empty set or string never restricts its axis.
type Criteria struct {
	MinPrice      int64    `json:"min_price"`
	MaxPrice      int64    `json:"max_price"`
	MinYear       int      `json:"min_year"`
	MaxYear       int      `json:"max_year"`
	Brands        []string `json:"brands"`
	Transmissions []string `json:"transmissions"`
	FuelTypes     []string `json:"fuel_types"`
	BodyTypes     []string `json:"body_types"`
	Features      []string `json:"features"`
	Location      string   `json:"location"`
	Search        string   `json:"search"`
}

// DefaultCriteria returns criteria that match the whole catalog.
func DefaultCriteria() Criteria {
	return Criteria{
		MinPrice: 0,
		MaxPrice: MaxPriceBound,
		MinYear:  0,
		MaxYear:  MaxYearBound,
		Location: LocationAll,
	}
}

// Normalize clamps the criteria into a valid shape.
//
// Negative bounds become zero, swapped ranges are reordered, set entries are
// trimmed with blanks dropped, and a blank location becomes [LocationAll].
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		MinPrice:      max(c.MinPrice, 0),
		MaxPrice:      max(c.MaxPrice, 0),
		MinYear:       max(c.MinYear, 0),
		MaxYear:       max(c.MaxYear, 0),
		Brands:        cleanSet(c.Brands),
		Transmissions: cleanSet(c.Transmissions),
		FuelTypes:     cleanSet(c.FuelTypes),
		BodyTypes:     cleanSet(c.BodyTypes),
		Features:      cleanSet(c.Features),
		Location:      strings.TrimSpace(c.Location),
		Search:        strings.TrimSpace(c.Search),
	}

	if out.MinPrice > out.MaxPrice {
		out.MinPrice, out.MaxPrice = out.MaxPrice, out.MinPrice
	}
	if out.MinYear > out.MaxYear {
		out.MinYear, out.MaxYear = out.MaxYear, out.MinYear
	}
	if out.Location == "" || fold(out.Location) == LocationAll {
		out.Location = LocationAll
	}

	return out
}

// IsDefault reports whether the criteria restrict nothing.
func (c Criteria) IsDefault() bool {
	d := DefaultCriteria()
	return c.MinPrice == d.MinPrice && c.MaxPrice == d.MaxPrice &&
		c.MinYear == d.MinYear && c.MaxYear == d.MaxYear &&
		len(c.Brands) == 0 && len(c.Transmissions) == 0 &&
		len(c.FuelTypes) == 0 && len(c.BodyTypes) == 0 &&
		len(c.Features) == 0 && c.Location == d.Location && c.Search == ""
}

// # Field Identifiers

const (
	FieldID       = "id"
	FieldSort     = "sort"
	FieldPrice    = "price"
	FieldYear     = "year"
	FieldImages   = "images"
	FieldVehicle  = "vehicle_id"
	FieldQuery    = "q"
	FieldBrand    = "brand"
	FieldLocation = "location"
)

// # Helpers

// fold returns the case-folded, trimmed form used for every comparison.
//
// A [cases.Caser] carries state, so a fresh one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// cleanSet trims entries and drops blanks, returning nil when nothing remains.
func cleanSet(values []string) []string {
	var out []string
	for _, v := range values {
		if clean := strings.TrimSpace(v); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

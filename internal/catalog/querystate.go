// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/autoluxe/pkg/query"
)

// # Query State
//
// A View is everything a shareable inventory link carries. Only non-default
// values are written, so an unfiltered view encodes to an empty query string.

// URL parameter names.
const (
	ParamSearch        = "search"
	ParamBrands        = "brands"
	ParamBrand         = "brand" // Accepted on read only
	ParamMinPrice      = "minPrice"
	ParamMaxPrice      = "maxPrice"
	ParamMinYear       = "minYear"
	ParamMaxYear       = "maxYear"
	ParamTransmissions = "transmissions"
	ParamFuelTypes     = "fuelTypes"
	ParamBodyTypes     = "bodyTypes"
	ParamFeatures      = "features"
	ParamLocation      = "location"
	ParamSort          = "sort"
	ParamCar           = "car"
)

// View is the shareable state of the inventory page.
type View struct {
	Criteria  Criteria `json:"criteria"`
	Sort      SortKey  `json:"sort"`
	VehicleID string   `json:"vehicle_id,omitempty"` // Opens the detail view when set
}

// DefaultView is the unfiltered inventory in featured order.
func DefaultView() View {
	return View{Criteria: DefaultCriteria(), Sort: SortFeatured}
}

// Normalize clamps the criteria and replaces an unknown sort key with [SortFeatured].
func (v View) Normalize() View {
	return View{
		Criteria:  v.Criteria.Normalize(),
		Sort:      ParseSortKey(string(v.Sort)),
		VehicleID: strings.TrimSpace(v.VehicleID),
	}
}

/*
Encode writes the non-default parts of v as query parameters.

Description: Multi-value axes are comma-joined; percent-encoding happens in
[url.Values.Encode]. Set values that themselves contain a comma do not survive
a round trip.

Parameters:
  - v: View

Returns:
  - url.Values
*/
func Encode(v View) url.Values {
	v = v.Normalize()
	c := v.Criteria
	values := url.Values{}

	setString(values, ParamSearch, c.Search)
	setList(values, ParamBrands, c.Brands)
	if c.MinPrice > 0 {
		values.Set(ParamMinPrice, strconv.FormatInt(c.MinPrice, 10))
	}
	if c.MaxPrice != MaxPriceBound {
		values.Set(ParamMaxPrice, strconv.FormatInt(c.MaxPrice, 10))
	}
	if c.MinYear > 0 {
		values.Set(ParamMinYear, strconv.Itoa(c.MinYear))
	}
	if c.MaxYear != MaxYearBound {
		values.Set(ParamMaxYear, strconv.Itoa(c.MaxYear))
	}
	setList(values, ParamTransmissions, c.Transmissions)
	setList(values, ParamFuelTypes, c.FuelTypes)
	setList(values, ParamBodyTypes, c.BodyTypes)
	setList(values, ParamFeatures, c.Features)
	if c.Location != LocationAll {
		values.Set(ParamLocation, c.Location)
	}
	if v.Sort != SortFeatured {
		values.Set(ParamSort, string(v.Sort))
	}
	setString(values, ParamCar, v.VehicleID)

	return values
}

// QueryString is the encoded form of [Encode], without a leading "?".
func QueryString(v View) string {
	return Encode(v).Encode()
}

/*
Decode reads a View from query parameters.

Description: Untrusted input is coerced, never rejected. Non-numeric or
negative bounds fall back to the axis default, swapped ranges are reordered,
unknown sort keys become [SortFeatured], and blank list entries are dropped.
"brands" wins over the legacy "brand" parameter.

Parameters:
  - values: url.Values

Returns:
  - View: Always normalised
*/
func Decode(values url.Values) View {
	c := DefaultCriteria()

	if n, ok := query.Int64(values.Get(ParamMinPrice)); ok {
		c.MinPrice = n
	}
	if n, ok := query.Int64(values.Get(ParamMaxPrice)); ok {
		c.MaxPrice = n
	}
	if n, ok := query.Int(values.Get(ParamMinYear)); ok {
		c.MinYear = n
	}
	if n, ok := query.Int(values.Get(ParamMaxYear)); ok {
		c.MaxYear = n
	}

	brands := values.Get(ParamBrands)
	if brands == "" {
		brands = values.Get(ParamBrand)
	}
	c.Brands = query.StringSlice(brands)
	c.Transmissions = query.StringSlice(values.Get(ParamTransmissions))
	c.FuelTypes = query.StringSlice(values.Get(ParamFuelTypes))
	c.BodyTypes = query.StringSlice(values.Get(ParamBodyTypes))
	c.Features = query.StringSlice(values.Get(ParamFeatures))
	c.Search = values.Get(ParamSearch)
	if location := values.Get(ParamLocation); location != "" {
		c.Location = location
	}

	return View{
		Criteria:  c,
		Sort:      SortKey(values.Get(ParamSort)),
		VehicleID: values.Get(ParamCar),
	}.Normalize()
}

// ParseQueryString decodes a raw query string; a malformed string yields the parts that parsed.
func ParseQueryString(raw string) View {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(values)
}

func setString(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func setList(values url.Values, key string, list []string) {
	if len(list) > 0 {
		values.Set(key, query.Join(list))
	}
}

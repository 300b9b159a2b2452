// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"strconv"
	"strings"

	"github.com/taibuivan/autoluxe/pkg/slice"
)

// # Filter Engine

/*
Filter returns the vehicles that pass every active axis of c, in input order.

Description: The input slice is never modified. Default criteria return a copy
of the whole input.

Parameters:
  - vehicles: []Vehicle
  - c: Criteria (Normalised by the caller or by [Decode])

Returns:
  - []Vehicle: Matching vehicles, never nil for a non-nil input
*/
func Filter(vehicles []Vehicle, c Criteria) []Vehicle {
	compiled := compile(c)
	return slice.Filter(vehicles, compiled.matches)
}

// Matches reports whether a single vehicle passes the criteria.
func Matches(v Vehicle, c Criteria) bool {
	return compile(c).matches(v)
}

// Search returns the vehicles whose searchable text contains query, ignoring case.
//
// A blank query matches everything.
func Search(vehicles []Vehicle, query string) []Vehicle {
	needle := fold(query)
	return slice.Filter(vehicles, func(v Vehicle) bool {
		return matchesText(v, needle)
	})
}

// matcher holds criteria with every set pre-folded so a catalog scan folds each
// criterion once.
type matcher struct {
	criteria      Criteria
	brands        map[string]struct{}
	transmissions map[string]struct{}
	fuelTypes     map[string]struct{}
	bodyTypes     map[string]struct{}
	features      []string
	location      string
	search        string
}

func compile(c Criteria) matcher {
	location := fold(c.Location)
	if location == LocationAll {
		location = ""
	}

	return matcher{
		criteria:      c,
		brands:        foldSet(c.Brands),
		transmissions: foldSet(c.Transmissions),
		fuelTypes:     foldSet(c.FuelTypes),
		bodyTypes:     foldSet(c.BodyTypes),
		features:      slice.Map(cleanSet(c.Features), fold),
		location:      location,
		search:        fold(c.Search),
	}
}

func (m matcher) matches(v Vehicle) bool {
	c := m.criteria

	if v.Price < c.MinPrice || v.Price > c.MaxPrice {
		return false
	}
	if v.Year < c.MinYear || v.Year > c.MaxYear {
		return false
	}
	if !inSet(m.brands, v.Brand) ||
		!inSet(m.transmissions, v.Transmission) ||
		!inSet(m.fuelTypes, v.FuelType) ||
		!inSet(m.bodyTypes, v.BodyType) {
		return false
	}
	if !hasAllFeatures(v, m.features) {
		return false
	}
	if m.location != "" && fold(v.Location) != m.location {
		return false
	}

	return matchesText(v, m.search)
}

// matchesText is the shared substring predicate; needle must already be folded.
func matchesText(v Vehicle, needle string) bool {
	if needle == "" {
		return true
	}

	fields := []string{v.Make, v.Model, strconv.Itoa(v.Year), v.Description, v.Location}
	for _, field := range fields {
		if strings.Contains(fold(field), needle) {
			return true
		}
	}
	for _, feature := range v.Features {
		if strings.Contains(fold(feature), needle) {
			return true
		}
	}
	return false
}

func hasAllFeatures(v Vehicle, required []string) bool {
	if len(required) == 0 {
		return true
	}

	have := foldSet(v.Features)
	for _, feature := range required {
		if _, ok := have[feature]; !ok {
			return false
		}
	}
	return true
}

// inSet passes when the set is empty or holds the folded value.
func inSet(set map[string]struct{}, value string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[fold(value)]
	return ok
}

func foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if folded := fold(v); folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}

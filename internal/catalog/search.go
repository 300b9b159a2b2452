// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// # Suggestions

// SuggestionType groups suggestions in the search dropdown.
type SuggestionType string

const (
	SuggestionBrand        SuggestionType = "brand"
	SuggestionModel        SuggestionType = "model"
	SuggestionYear         SuggestionType = "year"
	SuggestionFeature      SuggestionType = "feature"
	SuggestionLocation     SuggestionType = "location"
	SuggestionTransmission SuggestionType = "transmission"
	SuggestionSearch       SuggestionType = "search"
)

// SuggestionAction tells the client whether to apply a filter or run a search.
type SuggestionAction string

const (
	ActionFilter SuggestionAction = "filter"
	ActionSearch SuggestionAction = "search"
)

// Suggestion is one autocomplete entry.
type Suggestion struct {
	Text   string           `json:"text"`
	Type   SuggestionType   `json:"type"`
	Action SuggestionAction `json:"action"`
	Value  string           `json:"value"`
}

// Per-group suggestion caps.
const (
	brandSuggestionLimit    = 3
	modelSuggestionLimit    = 3
	featureSuggestionLimit  = 2
	locationSuggestionLimit = 2
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// PopularSuggestions is shown before the visitor types anything.
func PopularSuggestions() []Suggestion {
	return []Suggestion{
		{Text: "BMW", Type: SuggestionBrand, Action: ActionFilter, Value: "BMW"},
		{Text: "Mercedes", Type: SuggestionBrand, Action: ActionFilter, Value: "Mercedes"},
		{Text: "Toyota Land Cruiser", Type: SuggestionModel, Action: ActionSearch, Value: "Toyota Land Cruiser"},
		{Text: "2022", Type: SuggestionYear, Action: ActionFilter, Value: "2022"},
		{Text: "Automatic", Type: SuggestionTransmission, Action: ActionFilter, Value: "Automatic"},
		{Text: "Nairobi", Type: SuggestionLocation, Action: ActionFilter, Value: "Nairobi"},
	}
}

/*
Suggestions builds autocomplete entries for a partial query.

Description: Matches brands, "make model" pairs, an exact four-digit year,
features and locations, each group capped. When nothing matches, a single
free-text search entry is returned. A blank query yields [PopularSuggestions].

Parameters:
  - vehicles: []Vehicle
  - query: string

Returns:
  - []Suggestion: Grouped in brand, model, year, feature, location order
*/
func Suggestions(vehicles []Vehicle, query string) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return PopularSuggestions()
	}

	needle := fold(query)
	facets := BuildFacets(vehicles)
	var suggestions []Suggestion

	// Brands
	brands := 0
	for _, brand := range facets.Brands {
		if brands == brandSuggestionLimit {
			break
		}
		if strings.Contains(fold(brand.Name), needle) {
			suggestions = append(suggestions, Suggestion{Text: brand.Name, Type: SuggestionBrand, Action: ActionFilter, Value: brand.Name})
			brands++
		}
	}

	// Models
	models := 0
	for _, v := range vehicles {
		if models == modelSuggestionLimit {
			break
		}
		name := v.Make + " " + v.Model
		if strings.Contains(fold(v.Model), needle) || strings.Contains(fold(name), needle) {
			suggestions = append(suggestions, Suggestion{Text: name, Type: SuggestionModel, Action: ActionSearch, Value: name})
			models++
		}
	}

	// Years
	if yearPattern.MatchString(query) {
		suggestions = append(suggestions, Suggestion{
			Text:   fmt.Sprintf("Cars from %s", query),
			Type:   SuggestionYear,
			Action: ActionFilter,
			Value:  query,
		})
	}

	suggestions = append(suggestions, matchValues(facets.Features, needle, featureSuggestionLimit, SuggestionFeature)...)
	suggestions = append(suggestions, matchValues(facets.Locations, needle, locationSuggestionLimit, SuggestionLocation)...)

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Text:   fmt.Sprintf("Search for %q", query),
			Type:   SuggestionSearch,
			Action: ActionSearch,
			Value:  query,
		})
	}

	return suggestions
}

func matchValues(values []string, needle string, limit int, kind SuggestionType) []Suggestion {
	var out []Suggestion
	for _, value := range values {
		if len(out) == limit {
			break
		}
		if strings.Contains(fold(value), needle) {
			out = append(out, Suggestion{Text: value, Type: kind, Action: ActionFilter, Value: value})
		}
	}
	return out
}

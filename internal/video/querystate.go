// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"net/url"
	"strings"
)

// # URL Parameters

const (
	ParamCategory = "category"
	ParamSort     = "sort"
	ParamSearch   = "search"
	ParamVideo    = "video"
)

// View is the shareable state of the video hub.
type View struct {
	Category Category `json:"category"`
	Sort     SortKey  `json:"sort"`
	Search   string   `json:"search"`
	VideoID  string   `json:"video_id,omitempty"` // Opens the player when set
}

// DefaultView is every video, newest first.
func DefaultView() View {
	return View{Category: CategoryAll, Sort: SortLatest}
}

// Normalize replaces unknown values with their defaults and trims text.
func (v View) Normalize() View {
	return View{
		Category: ParseCategory(string(v.Category)),
		Sort:     ParseSortKey(string(v.Sort)),
		Search:   strings.TrimSpace(v.Search),
		VideoID:  strings.TrimSpace(v.VideoID),
	}
}

// Encode writes the non-default parts of v.
func Encode(v View) url.Values {
	v = v.Normalize()
	values := url.Values{}

	if v.Category != CategoryAll {
		values.Set(ParamCategory, string(v.Category))
	}
	if v.Sort != SortLatest {
		values.Set(ParamSort, string(v.Sort))
	}
	if v.Search != "" {
		values.Set(ParamSearch, v.Search)
	}
	if v.VideoID != "" {
		values.Set(ParamVideo, v.VideoID)
	}

	return values
}

// Decode reads a view from query parameters, coercing anything unknown to the default.
func Decode(values url.Values) View {
	return View{
		Category: Category(values.Get(ParamCategory)),
		Sort:     SortKey(values.Get(ParamSort)),
		Search:   values.Get(ParamSearch),
		VideoID:  values.Get(ParamVideo),
	}.Normalize()
}

// QueryString is the canonical encoded form of v, empty for the default view.
func QueryString(v View) string {
	return Encode(v).Encode()
}

// ParseQueryString decodes a raw query string; a malformed string yields the parts that parsed.
func ParseQueryString(raw string) View {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(values)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses and formats URL query parameter values.
//
// Multi-value parameters travel as a single comma-joined value
// ("brands=BMW,Audi"). Percent-encoding is handled by [net/url]; this package
// only splits, joins and coerces the decoded strings.
package query

import (
	"strconv"
	"strings"
)

// Separator joins multi-value parameters.
const Separator = ","

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings. Empty entries are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, Separator) {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Join is the inverse of [StringSlice] for values that contain no separator.
func Join(values []string) string {
	return strings.Join(values, Separator)
}

// Int64 parses a non-negative integer, reporting ok=false for anything else.
func Int64(val string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Int parses a non-negative int, reporting ok=false for anything else.
func Int(val string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

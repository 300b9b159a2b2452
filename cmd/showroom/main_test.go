// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/autoluxe/internal/catalog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CATALOG_PATH", "")
	t.Setenv("VIDEOS_PATH", "")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

/*
TestList verifies filtering, sorting and the out-of-range notice.
*/
func TestList(t *testing.T) {
	out, err := run(t, "list", "brands=Porsche&sort=price-low")
	require.NoError(t, err)

	assert.Contains(t, out, "2 vehicles")
	assert.Less(t, strings.Index(out, "PORSCHE-911-2020-001"), strings.Index(out, "PORSCHE-CAYENNE-2022-001"))
	assert.Contains(t, out, "?brands=Porsche&sort=price-low")

	out, err = run(t, "list", "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "out of range")
}

/*
TestShow verifies the detail output and the unknown vehicle error.
*/
func TestShow(t *testing.T) {
	out, err := run(t, "show", "BMW-M3-2023-001")
	require.NoError(t, err)
	assert.Contains(t, out, "tel:+254")
	assert.Contains(t, out, "https://wa.me/254")

	_, err = run(t, "show", "MISSING")
	assert.Error(t, err)
}

/*
TestFacets verifies the JSON output mode.
*/
func TestFacets(t *testing.T) {
	out, err := run(t, "facets", "--json")
	require.NoError(t, err)

	var facets catalog.Facets
	require.NoError(t, json.Unmarshal([]byte(out), &facets))
	assert.NotEmpty(t, facets.Brands)
	assert.LessOrEqual(t, facets.MinPrice, facets.MaxPrice)
}

/*
TestVideos verifies category filtering of the video hub.
*/
func TestVideos(t *testing.T) {
	out, err := run(t, "videos", "category=maintenance")
	require.NoError(t, err)
	assert.Contains(t, out, "video-011")
	assert.NotContains(t, out, "video-001 ")
}

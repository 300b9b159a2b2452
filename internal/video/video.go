// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video implements the showroom video hub: category tabs, sorting,
free-text search, related videos and a "load more" feed.

Like the catalog, the library is loaded once and every query function is pure.
*/
package video

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
)

//go:embed data/videos.yaml
var embeddedLibrary []byte

// # Domain Enums

// Category is a video hub tab.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryWalkaround  Category = "walkaround"
	CategoryTestDrive   Category = "test-drive"
	CategoryReview      Category = "review"
	CategoryMaintenance Category = "maintenance"
	CategoryNews        Category = "news"
)

// Categories lists the tabs in display order, "all" first.
func Categories() []Category {
	return []Category{CategoryAll, CategoryWalkaround, CategoryTestDrive, CategoryReview, CategoryMaintenance, CategoryNews}
}

// ParseCategory returns the category for raw, or [CategoryAll] when unknown.
func ParseCategory(raw string) Category {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, category := range Categories() {
		if candidate == category {
			return category
		}
	}
	return CategoryAll
}

// SortKey selects a video ordering.
type SortKey string

const (
	// SortLatest orders by upload date, newest first.
	SortLatest SortKey = "latest"

	// SortPopular orders by view count, highest first.
	SortPopular SortKey = "popular"

	// SortDuration orders by running time, shortest first.
	SortDuration SortKey = "duration"
)

// ParseSortKey returns the key for raw, or [SortLatest] when unknown.
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortLatest, SortPopular, SortDuration:
		return key
	}
	return SortLatest
}

// # Model

// Video is one entry of the hub.
type Video struct {
	ID           string    `json:"id"                      yaml:"id"`
	Title        string    `json:"title"                   yaml:"title"`
	Description  string    `json:"description"             yaml:"description"`
	Category     Category  `json:"category"                yaml:"category"`
	Duration     string    `json:"duration"                yaml:"duration"` // "mm:ss"
	Views        string    `json:"views"                   yaml:"views"`    // As displayed, e.g. "45,230"
	Likes        string    `json:"likes"                   yaml:"likes"`
	UploadDate   time.Time `json:"upload_date"             yaml:"-"`
	Uploader     string    `json:"uploader"                yaml:"uploader"`
	Thumbnail    string    `json:"thumbnail"               yaml:"thumbnail"`
	VideoURL     string    `json:"video_url"               yaml:"videoUrl"`
	Tags         []string  `json:"tags"                    yaml:"tags"`
	CarReference string    `json:"car_reference,omitempty" yaml:"carReference"`
	Featured     bool      `json:"featured"                yaml:"featured"`
}

// # Library

// Library is the immutable video list.
type Library struct {
	videos []Video
	index  map[string]int
}

type record struct {
	Video      `yaml:",inline"`
	UploadDate string `yaml:"uploadDate"`
}

// NewLibrary validates videos and builds a [Library].
func NewLibrary(videos []Video) (*Library, error) {
	library := &Library{
		videos: make([]Video, 0, len(videos)),
		index:  make(map[string]int, len(videos)),
	}

	for position, v := range videos {
		v.ID = strings.TrimSpace(v.ID)
		if v.ID == "" {
			return nil, fmt.Errorf("video: entry %d has no id", position)
		}
		if _, exists := library.index[v.ID]; exists {
			return nil, fmt.Errorf("video: duplicate id %q", v.ID)
		}
		if ParseCategory(string(v.Category)) == CategoryAll {
			return nil, fmt.Errorf("video: %q has unknown category %q", v.ID, v.Category)
		}

		library.index[v.ID] = len(library.videos)
		library.videos = append(library.videos, v)
	}

	return library, nil
}

// Load decodes a YAML video document.
func Load(reader io.Reader) (*Library, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var records []record
	if err := decoder.Decode(&records); err != nil && err != io.EOF {
		return nil, fmt.Errorf("video: decode library: %w", err)
	}

	videos := make([]Video, 0, len(records))
	for _, rec := range records {
		v := rec.Video
		if raw := strings.TrimSpace(rec.UploadDate); raw != "" {
			uploaded, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				return nil, fmt.Errorf("video: %q uploadDate: %w", v.ID, err)
			}
			v.UploadDate = uploaded
		}
		videos = append(videos, v)
	}

	return NewLibrary(videos)
}

// LoadFile reads the library from path, or the embedded library when path is empty.
func LoadFile(path string) (*Library, error) {
	if path == "" {
		return Load(bytes.NewReader(embeddedLibrary))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("video: open library: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Default returns the embedded library.
func Default() (*Library, error) {
	return LoadFile("")
}

// Get returns the video with the given ID or a NotFound error.
func (library *Library) Get(id string) (Video, error) {
	position, ok := library.index[strings.TrimSpace(id)]
	if !ok {
		return Video{}, apperr.NotFound("Video")
	}
	return library.videos[position], nil
}

// All returns a copy of the library in authored order.
func (library *Library) All() []Video {
	out := make([]Video, len(library.videos))
	copy(out, library.videos)
	return out
}

// Len returns the number of videos.
func (library *Library) Len() int {
	return len(library.videos)
}

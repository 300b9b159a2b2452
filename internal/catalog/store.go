// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

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
	"github.com/taibuivan/autoluxe/pkg/pointer"
)

//go:embed data/vehicles.yaml
var embeddedInventory []byte

// dateLayouts are the accepted listing timestamp formats.
var dateLayouts = []string{time.DateOnly, time.RFC3339}

// # Catalog Store

// Store is the immutable showroom inventory.
//
// It is safe for concurrent use because nothing mutates it after [New] returns.
type Store struct {
	vehicles []Vehicle
	index    map[string]int
}

// record is the on-disk listing shape; dates are parsed separately so a bad
// value names its listing.
type record struct {
	Vehicle   `yaml:",inline"`
	CreatedAt string `yaml:"createdAt"`
	UpdatedAt string `yaml:"updatedAt"`
}

/*
New validates the vehicles and builds a [Store].

Description: Rejects listings with a blank or duplicate ID, no images, or a
negative year, price, door or seat count. A blank brand falls back to the make.

Parameters:
  - vehicles: []Vehicle (Inventory in display order)

Returns:
  - *Store: The loaded inventory
  - error: The first invalid listing
*/
func New(vehicles []Vehicle) (*Store, error) {
	store := &Store{
		vehicles: make([]Vehicle, 0, len(vehicles)),
		index:    make(map[string]int, len(vehicles)),
	}

	for position, vehicle := range vehicles {
		vehicle.ID = strings.TrimSpace(vehicle.ID)
		if vehicle.ID == "" {
			return nil, fmt.Errorf("catalog: listing %d has no id", position)
		}
		if _, exists := store.index[vehicle.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate listing id %q", vehicle.ID)
		}
		if len(vehicle.Images) == 0 {
			return nil, fmt.Errorf("catalog: listing %q has no images", vehicle.ID)
		}
		if vehicle.Year < 0 || vehicle.Price < 0 {
			return nil, fmt.Errorf("catalog: listing %q has a negative year or price", vehicle.ID)
		}
		if pointer.Fallback(vehicle.Doors, 0) < 0 || pointer.Fallback(vehicle.Seats, 0) < 0 {
			return nil, fmt.Errorf("catalog: listing %q has a negative door or seat count", vehicle.ID)
		}
		if strings.TrimSpace(vehicle.Brand) == "" {
			vehicle.Brand = vehicle.Make
		}

		store.index[vehicle.ID] = len(store.vehicles)
		store.vehicles = append(store.vehicles, vehicle.Clone())
	}

	return store, nil
}

// Load decodes a YAML listing document and builds a [Store].
func Load(reader io.Reader) (*Store, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var records []record
	if err := decoder.Decode(&records); err != nil && err != io.EOF {
		return nil, fmt.Errorf("catalog: decode inventory: %w", err)
	}

	vehicles := make([]Vehicle, 0, len(records))
	for _, rec := range records {
		vehicle := rec.Vehicle

		var err error
		if vehicle.CreatedAt, err = parseDate(rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: listing %q createdAt: %w", vehicle.ID, err)
		}
		if vehicle.UpdatedAt, err = parseDate(rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: listing %q updatedAt: %w", vehicle.ID, err)
		}

		vehicles = append(vehicles, vehicle)
	}

	return New(vehicles)
}

// LoadFile reads the inventory from path, or the embedded inventory when path is empty.
func LoadFile(path string) (*Store, error) {
	if path == "" {
		return Load(bytes.NewReader(embeddedInventory))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open inventory: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Default returns the embedded showroom inventory.
func Default() (*Store, error) {
	return LoadFile("")
}

// # Lookups

// Get returns a copy of the vehicle with the given ID or a NotFound error.
func (store *Store) Get(id string) (Vehicle, error) {
	position, ok := store.index[strings.TrimSpace(id)]
	if !ok {
		return Vehicle{}, apperr.NotFound("Vehicle")
	}
	return store.vehicles[position].Clone(), nil
}

// Has reports whether the ID is in the catalog.
func (store *Store) Has(id string) bool {
	_, ok := store.index[strings.TrimSpace(id)]
	return ok
}

// All returns a copy of the inventory in catalog order. Callers may modify it freely.
func (store *Store) All() []Vehicle {
	out := make([]Vehicle, len(store.vehicles))
	for i, vehicle := range store.vehicles {
		out[i] = vehicle.Clone()
	}
	return out
}

// Len returns the number of listings.
func (store *Store) Len() int {
	return len(store.vehicles)
}

// Resolve returns the vehicles for ids in the given order, skipping unknown IDs.
func (store *Store) Resolve(ids []string) []Vehicle {
	out := make([]Vehicle, 0, len(ids))
	for _, id := range ids {
		if vehicle, err := store.Get(id); err == nil {
			out = append(out, vehicle)
		}
	}
	return out
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}

	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

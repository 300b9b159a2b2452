// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package visitor gives typed access to one visitor's persisted state.

Every key is a JSON document in the visitor's storage namespace:

	favorites         []string           toggled vehicle IDs
	saved             []string           toggled vehicle IDs
	recently_viewed   []string           most recent first, capped
	search_history    []string           most recent first, capped, case-insensitive
	filters           catalog.Criteria   last applied filters
	theme             "light" | "dark"
	submissions       []contact.Record   contact form history
	analytics         []ViewEvent        oldest dropped past the cap

A value that no longer decodes is treated as absent and overwritten by the next
write.
*/
package visitor

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/internal/platform/validate"
	"github.com/taibuivan/autoluxe/internal/storage"
	"github.com/taibuivan/autoluxe/pkg/slice"
)

// # Keys

const (
	KeyFavorites      = "favorites"
	KeySaved          = "saved"
	KeyRecentlyViewed = "recently_viewed"
	KeySearchHistory  = "search_history"
	KeyFilters        = "filters"
	KeyTheme          = "theme"
	KeySubmissions    = "submissions"
	KeyAnalytics      = "analytics"
)

// # Preferences

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// FieldTheme names the theme in validation errors.
const FieldTheme = "theme"

// # Analytics

// Subject kinds of a [ViewEvent].
const (
	SubjectVehicle = "vehicle"
	SubjectVideo   = "video"
)

// ViewEvent is one tracked detail or video view.
type ViewEvent struct {
	SubjectID string    `json:"subject_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Page      string    `json:"page"`
}

// # Visitor

// Visitor reads and writes one namespace. Read-modify-write operations are serialized.
type Visitor struct {
	id     string
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New binds a visitor ID to a store.
func New(id string, store storage.Store, logger *zap.Logger) *Visitor {
	return &Visitor{
		id:     id,
		store:  store,
		logger: logger.With(zap.String("visitor_id", id)),
		now:    time.Now,
	}
}

// ID returns the storage namespace.
func (visitor *Visitor) ID() string {
	return visitor.id
}

// # Favorites & Saved

// ToggleFavorite adds or removes vehicleID and reports the new membership.
func (visitor *Visitor) ToggleFavorite(ctx context.Context, vehicleID string) (bool, error) {
	return visitor.toggle(ctx, KeyFavorites, vehicleID)
}

// Favorites returns the favorite IDs in insertion order.
func (visitor *Visitor) Favorites(ctx context.Context) ([]string, error) {
	return visitor.strings(ctx, KeyFavorites)
}

// ToggleSaved adds or removes vehicleID from the saved list and reports the new membership.
func (visitor *Visitor) ToggleSaved(ctx context.Context, vehicleID string) (bool, error) {
	return visitor.toggle(ctx, KeySaved, vehicleID)
}

// Saved returns the saved IDs in insertion order.
func (visitor *Visitor) Saved(ctx context.Context) ([]string, error) {
	return visitor.strings(ctx, KeySaved)
}

// # Histories

// RecordViewed moves vehicleID to the head of the recently viewed list.
func (visitor *Visitor) RecordViewed(ctx context.Context, vehicleID string) error {
	return visitor.pushFront(ctx, KeyRecentlyViewed, vehicleID, constants.RecentlyViewedLimit,
		func(a, b string) bool { return a == b })
}

// RecentlyViewed returns the most recent vehicle IDs first.
func (visitor *Visitor) RecentlyViewed(ctx context.Context) ([]string, error) {
	return visitor.strings(ctx, KeyRecentlyViewed)
}

// RecordSearch moves query to the head of the search history. Blank queries are ignored.
func (visitor *Visitor) RecordSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return visitor.pushFront(ctx, KeySearchHistory, query, constants.SearchHistoryLimit, strings.EqualFold)
}

// SearchHistory returns the most recent queries first.
func (visitor *Visitor) SearchHistory(ctx context.Context) ([]string, error) {
	return visitor.strings(ctx, KeySearchHistory)
}

// ClearSearchHistory removes every stored query.
func (visitor *Visitor) ClearSearchHistory(ctx context.Context) error {
	return visitor.store.Delete(ctx, visitor.id, KeySearchHistory)
}

// # Filters

// SaveFilters persists the normalised criteria.
func (visitor *Visitor) SaveFilters(ctx context.Context, criteria catalog.Criteria) error {
	return visitor.write(ctx, KeyFilters, criteria.Normalize())
}

// LoadFilters returns the saved criteria and whether any were stored.
func (visitor *Visitor) LoadFilters(ctx context.Context) (catalog.Criteria, bool, error) {
	var criteria catalog.Criteria
	found, err := visitor.read(ctx, KeyFilters, &criteria)
	if err != nil || !found {
		return catalog.DefaultCriteria(), false, err
	}
	return criteria.Normalize(), true, nil
}

// ClearFilters forgets the saved criteria.
func (visitor *Visitor) ClearFilters(ctx context.Context) error {
	return visitor.store.Delete(ctx, visitor.id, KeyFilters)
}

// # Theme

// Theme returns the stored preference, light by default.
func (visitor *Visitor) Theme(ctx context.Context) (Theme, error) {
	var theme Theme
	found, err := visitor.read(ctx, KeyTheme, &theme)
	if err != nil {
		return ThemeLight, err
	}
	if !found || (theme != ThemeLight && theme != ThemeDark) {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetTheme stores the preference. Anything but light or dark is a validation error.
func (visitor *Visitor) SetTheme(ctx context.Context, theme string) (Theme, error) {
	theme = strings.ToLower(strings.TrimSpace(theme))

	check := &validate.Validator{}
	check.OneOf(FieldTheme, theme, string(ThemeLight), string(ThemeDark))
	if err := check.Err(); err != nil {
		return "", err
	}

	if err := visitor.write(ctx, KeyTheme, Theme(theme)); err != nil {
		return "", err
	}
	return Theme(theme), nil
}

// # Submissions

// RecordSubmission stores record, replacing an earlier version with the same ticket.
// A pending record never replaces a settled one, so a late pending write
// cannot undo a delivery that settled first.
func (visitor *Visitor) RecordSubmission(ctx context.Context, record contact.Record) error {
	visitor.mu.Lock()
	defer visitor.mu.Unlock()

	var records []contact.Record
	if found, err := visitor.read(ctx, KeySubmissions, &records); err != nil {
		return err
	} else if !found {
		records = nil
	}

	replaced := false
	for i := range records {
		if records[i].Ticket != record.Ticket {
			continue
		}
		if record.Status == contact.StatusPending && records[i].Status != contact.StatusPending {
			return nil
		}
		records[i] = record
		replaced = true
		break
	}
	if !replaced {
		records = append(records, record)
	}

	return visitor.write(ctx, KeySubmissions, records)
}

// Submissions returns the contact history, oldest first.
func (visitor *Visitor) Submissions(ctx context.Context) ([]contact.Record, error) {
	var records []contact.Record
	found, err := visitor.read(ctx, KeySubmissions, &records)
	if err != nil {
		return nil, err
	}
	if !found || records == nil {
		records = []contact.Record{}
	}
	return records, nil
}

// # Analytics

// TrackView appends a view event, dropping the oldest past the cap.
func (visitor *Visitor) TrackView(ctx context.Context, subjectType, subjectID, page string) (ViewEvent, error) {
	event := ViewEvent{
		SubjectID: subjectID,
		Type:      subjectType,
		Timestamp: visitor.now().UTC(),
		Page:      page,
	}

	visitor.mu.Lock()
	defer visitor.mu.Unlock()

	var events []ViewEvent
	if found, err := visitor.read(ctx, KeyAnalytics, &events); err != nil {
		return ViewEvent{}, err
	} else if !found {
		events = nil
	}

	events = append(events, event)
	if overflow := len(events) - constants.AnalyticsLimit; overflow > 0 {
		events = events[overflow:]
	}

	return event, visitor.write(ctx, KeyAnalytics, events)
}

// Views returns the tracked events, oldest first.
func (visitor *Visitor) Views(ctx context.Context) ([]ViewEvent, error) {
	var events []ViewEvent
	found, err := visitor.read(ctx, KeyAnalytics, &events)
	if err != nil {
		return nil, err
	}
	if !found || events == nil {
		events = []ViewEvent{}
	}
	return events, nil
}

// # Internals

func (visitor *Visitor) toggle(ctx context.Context, key, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, validate.RequiredError("vehicle_id", "This field is required")
	}

	visitor.mu.Lock()
	defer visitor.mu.Unlock()

	ids, err := visitor.strings(ctx, key)
	if err != nil {
		return false, err
	}

	without := slice.Filter(ids, func(existing string) bool { return existing != id })
	member := len(without) == len(ids)
	if member {
		without = append(without, id)
	}

	return member, visitor.write(ctx, key, without)
}

func (visitor *Visitor) pushFront(ctx context.Context, key, item string, limit int, same func(a, b string) bool) error {
	visitor.mu.Lock()
	defer visitor.mu.Unlock()

	items, err := visitor.strings(ctx, key)
	if err != nil {
		return err
	}
	return visitor.write(ctx, key, slice.PushFront(items, item, limit, same))
}

func (visitor *Visitor) strings(ctx context.Context, key string) ([]string, error) {
	var items []string
	found, err := visitor.read(ctx, key, &items)
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		items = []string{}
	}
	return items, nil
}

// read decodes key into target and reports whether a usable value was stored.
func (visitor *Visitor) read(ctx context.Context, key string, target any) (bool, error) {
	raw, err := visitor.store.Get(ctx, visitor.id, key)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, target); err != nil {
		visitor.logger.Warn("visitor_state_corrupt", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (visitor *Visitor) write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperr.Internal(err)
	}
	return visitor.store.Set(ctx, visitor.id, key, raw)
}

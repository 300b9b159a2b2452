// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package visitor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/storage"
	"github.com/taibuivan/autoluxe/internal/visitor"
)

func newVisitor(t *testing.T) (*visitor.Visitor, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return visitor.New("visitor-1", store, zap.NewNop()), store
}

/*
TestToggleFavorite verifies membership flips and insertion order.
*/
func TestToggleFavorite(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	added, err := v.ToggleFavorite(ctx, "BMW-M3-2023-001")
	require.NoError(t, err)
	assert.True(t, added)

	_, err = v.ToggleFavorite(ctx, "AUDI-Q7-2022-001")
	require.NoError(t, err)

	favorites, err := v.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BMW-M3-2023-001", "AUDI-Q7-2022-001"}, favorites)

	added, err = v.ToggleFavorite(ctx, "BMW-M3-2023-001")
	require.NoError(t, err)
	assert.False(t, added)

	favorites, err = v.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AUDI-Q7-2022-001"}, favorites)

	// Saved is an independent list.
	saved, err := v.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.NotNil(t, saved)

	_, err = v.ToggleFavorite(ctx, " ")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestRecentlyViewed verifies most-recent-first order, de-duplication and the cap.
*/
func TestRecentlyViewed(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	for i := range 12 {
		require.NoError(t, v.RecordViewed(ctx, fmt.Sprintf("CAR-%02d", i)))
	}
	require.NoError(t, v.RecordViewed(ctx, "CAR-05"))

	recent, err := v.RecentlyViewed(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
	assert.Equal(t, "CAR-05", recent[0])
	assert.Equal(t, "CAR-11", recent[1])
	assert.NotContains(t, recent, "CAR-00")
	assert.NotContains(t, recent, "CAR-01")

	count := 0
	for _, id := range recent {
		if id == "CAR-05" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

/*
TestSearchHistory verifies case-insensitive de-duplication and clearing.
*/
func TestSearchHistory(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	require.NoError(t, v.RecordSearch(ctx, "land cruiser"))
	require.NoError(t, v.RecordSearch(ctx, "BMW"))
	require.NoError(t, v.RecordSearch(ctx, "  "))
	require.NoError(t, v.RecordSearch(ctx, "Land Cruiser"))

	history, err := v.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Land Cruiser", "BMW"}, history)

	require.NoError(t, v.ClearSearchHistory(ctx))
	history, err = v.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

/*
TestFilters verifies the saved criteria round trip.
*/
func TestFilters(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	criteria, found, err := v.LoadFilters(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, criteria.IsDefault())

	want := catalog.DefaultCriteria()
	want.Brands = []string{"Toyota"}
	want.MaxPrice = 10_000_000
	want.Search = "hybrid"
	require.NoError(t, v.SaveFilters(ctx, want))

	criteria, found, err = v.LoadFilters(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want.Normalize(), criteria)

	require.NoError(t, v.ClearFilters(ctx))
	_, found, err = v.LoadFilters(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestTheme verifies the default, normalisation and rejection of unknown themes.
*/
func TestTheme(t *testing.T) {
	v, store := newVisitor(t)
	ctx := context.Background()

	theme, err := v.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, visitor.ThemeLight, theme)

	theme, err = v.SetTheme(ctx, " Dark ")
	require.NoError(t, err)
	assert.Equal(t, visitor.ThemeDark, theme)

	_, err = v.SetTheme(ctx, "sepia")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	theme, err = v.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, visitor.ThemeDark, theme)

	// A corrupt value reads as the default.
	require.NoError(t, store.Set(ctx, "visitor-1", visitor.KeyTheme, []byte("{not json")))
	theme, err = v.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, visitor.ThemeLight, theme)
}

/*
TestSubmissions verifies append and in-place status updates by ticket.
*/
func TestSubmissions(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	pending := contact.Record{Ticket: "t-1", Name: "Otieno", Status: contact.StatusPending}
	require.NoError(t, v.RecordSubmission(ctx, pending))
	require.NoError(t, v.RecordSubmission(ctx, contact.Record{Ticket: "t-2", Status: contact.StatusPending}))

	delivered := pending
	delivered.Status = contact.StatusDelivered
	require.NoError(t, v.RecordSubmission(ctx, delivered))

	records, err := v.Submissions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "t-1", records[0].Ticket)
	assert.Equal(t, contact.StatusDelivered, records[0].Status)
	assert.Equal(t, contact.StatusPending, records[1].Status)
}

/*
TestSubmissions_SettledBeforePending verifies that a pending write arriving
after its delivery settled leaves the settled record in place.
*/
func TestSubmissions_SettledBeforePending(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	pending := contact.Record{Ticket: "t-1", Name: "Achieng", Status: contact.StatusPending}
	failed := pending
	failed.Status = contact.StatusFailed
	failed.Error = contact.FailureMessage

	require.NoError(t, v.RecordSubmission(ctx, failed))
	require.NoError(t, v.RecordSubmission(ctx, pending))

	records, err := v.Submissions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, contact.StatusFailed, records[0].Status)
	assert.Equal(t, contact.FailureMessage, records[0].Error)
}

/*
TestTrackView verifies the analytics cap drops the oldest events.
*/
func TestTrackView(t *testing.T) {
	v, _ := newVisitor(t)
	ctx := context.Background()

	for i := range 105 {
		_, err := v.TrackView(ctx, visitor.SubjectVehicle, fmt.Sprintf("CAR-%03d", i), "/inventory")
		require.NoError(t, err)
	}

	events, err := v.Views(ctx)
	require.NoError(t, err)
	require.Len(t, events, 100)
	assert.Equal(t, "CAR-005", events[0].SubjectID)
	assert.Equal(t, "CAR-104", events[99].SubjectID)
	assert.Equal(t, "/inventory", events[99].Page)
	assert.False(t, events[99].Timestamp.IsZero())
}

/*
TestVisitor_Isolation verifies that namespaces never leak into each other.
*/
func TestVisitor_Isolation(t *testing.T) {
	store := storage.NewMemoryStore()
	a := visitor.New("a", store, zap.NewNop())
	b := visitor.New("b", store, zap.NewNop())
	ctx := context.Background()

	_, err := a.ToggleSaved(ctx, "BMW-M3-2023-001")
	require.NoError(t, err)

	saved, err := b.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

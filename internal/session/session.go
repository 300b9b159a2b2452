// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds one visitor's browsing state on the server.

A [Session] is the explicit state object of the showroom: the current criteria
and sort key, the inventory pagers, the video hub view and the detail view
controller. Every mutation goes through its methods under one mutex. Persisted
preferences live in the visitor namespace and survive the session.

Events for the visitor (detail view changes, submission results, notices) are
published on the session's topic and reach its websocket subscribers.
*/
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/detail"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/validate"
	"github.com/taibuivan/autoluxe/internal/video"
	"github.com/taibuivan/autoluxe/internal/visitor"
	"github.com/taibuivan/autoluxe/pkg/pagination"
	"github.com/taibuivan/autoluxe/pkg/slice"
)

// # Events

// Event types published on a session topic.
const (
	EventDetail     = "detail"
	EventNotice     = "notice"
	EventSubmission = "submission"
)

// Level is the severity of a [Notice].
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short user-visible message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers events to the subscribers of a topic.
type Notifier interface {
	Publish(topic, msgType string, data any)
	CloseTopic(topic string)
}

// Pages reported in view analytics.
const (
	PageInventory = "inventory"
	PageVideos    = "videos"
)

// # Views

// Inventory is one numbered page of the session's inventory.
type Inventory struct {
	Items []catalog.Vehicle `json:"items"`
	Meta  pagination.Meta   `json:"meta"`
	Reset bool              `json:"reset"`
	Query string            `json:"query"`
}

// Feed is the "load more" view of the session's inventory.
type Feed struct {
	pagination.Window[catalog.Vehicle]
	Query string `json:"query"`
}

// VideoFeed is the "load more" view of the video hub.
type VideoFeed struct {
	pagination.Window[video.Video]
	View  video.View `json:"view"`
	Query string     `json:"query"`
}

// Snapshot is the shareable state of a session.
type Snapshot struct {
	ID        string        `json:"id"`
	VisitorID string        `json:"visitor_id"`
	View      catalog.View  `json:"view"`
	Query     string        `json:"query"`
	Page      int           `json:"page"`
	Detail    detail.State  `json:"detail"`
	Videos    video.View    `json:"videos"`
	Theme     visitor.Theme `json:"theme"`
	CreatedAt time.Time     `json:"created_at"`
	LastSeen  time.Time     `json:"last_seen"`
}

// # Session

// Session is one visitor's browsing state. It is safe for concurrent use.
type Session struct {
	id        string
	createdAt time.Time

	catalog    *catalog.Service
	videos     *video.Service
	dispatcher *contact.Dispatcher
	visitor    *visitor.Visitor
	notifier   Notifier
	logger     *zap.Logger

	mu        sync.Mutex
	view      catalog.View
	pager     *pagination.Paged[catalog.Vehicle]
	feed      *pagination.Incremental[catalog.Vehicle]
	videoView video.View
	videoFeed *pagination.Incremental[video.Video]
	detail    *detail.Controller
	tickets   map[string]struct{}
	lastSeen  time.Time
	closed    bool
}

// ID returns the session identifier, also used as its event topic.
func (s *Session) ID() string {
	return s.id
}

// Visitor returns the persisted state of the session's visitor.
func (s *Session) Visitor() *visitor.Visitor {
	return s.visitor
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	theme, err := s.visitor.Theme(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:        s.id,
		VisitorID: s.visitor.ID(),
		View:      s.view,
		Query:     catalog.QueryString(s.view),
		Page:      s.pager.Current(),
		Detail:    s.detail.State(),
		Videos:    s.videoView,
		Theme:     theme,
		CreatedAt: s.createdAt,
		LastSeen:  s.lastSeen,
	}, nil
}

// # Filters & Sort

/*
SetFilters applies new criteria to the inventory.

Description: The criteria are normalised, both pagers return to the start, the
criteria are persisted and a non-blank search is added to the search history.

Parameters:
  - ctx: context.Context
  - criteria: catalog.Criteria

Returns:
  - Inventory: The first page under the new criteria
  - error: Persistence failures
*/
func (s *Session) SetFilters(ctx context.Context, criteria catalog.Criteria) (Inventory, error) {
	criteria = criteria.Normalize()

	if err := s.visitor.SaveFilters(ctx, criteria); err != nil {
		return Inventory{}, err
	}
	if criteria.Search != "" {
		if err := s.visitor.RecordSearch(ctx, criteria.Search); err != nil {
			return Inventory{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Criteria = criteria
	s.pager.Reset()
	s.feed.Reset()
	return s.inventoryLocked(ctx), nil
}

// ResetFilters clears every criterion and forgets the saved filters.
func (s *Session) ResetFilters(ctx context.Context) (Inventory, error) {
	if err := s.visitor.ClearFilters(ctx); err != nil {
		return Inventory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Criteria = catalog.DefaultCriteria()
	s.pager.Reset()
	s.feed.Reset()
	return s.inventoryLocked(ctx), nil
}

// SetSort changes the ordering. Unlike URL input, an unknown key is rejected.
func (s *Session) SetSort(ctx context.Context, key string) (Inventory, error) {
	allowed := slice.Map(catalog.SortKeys(), func(k catalog.SortKey) string { return string(k) })
	if err := new(validate.Validator).OneOf(catalog.FieldSort, key, allowed...).Err(); err != nil {
		return Inventory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Sort = catalog.SortKey(key)
	s.pager.Reset()
	s.feed.Reset()
	return s.inventoryLocked(ctx), nil
}

// # Inventory

// Inventory returns page n of the inventory, or the current page when n is zero.
// A page past the end serves page 1 with Reset set.
func (s *Session) Inventory(ctx context.Context, page int) Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page != 0 {
		s.pager.GoTo(page)
	}
	return s.inventoryLocked(ctx)
}

// Feed returns the visible prefix of the inventory.
func (s *Session) Feed(ctx context.Context) Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedLocked()
}

// LoadMore grows the visible prefix by one page.
func (s *Session) LoadMore(ctx context.Context) Feed {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feed.LoadMore()
	return s.feedLocked()
}

func (s *Session) matchesLocked() []catalog.Vehicle {
	return catalog.Sort(catalog.Filter(s.catalog.Store().All(), s.view.Criteria), s.view.Sort)
}

func (s *Session) inventoryLocked(ctx context.Context) Inventory {
	page := s.pager.Apply(s.matchesLocked())
	if page.Reset {
		s.logger.Debug("inventory_page_reset", zap.String("session_id", s.id))
	}

	return Inventory{
		Items: page.Items,
		Meta:  page.Meta,
		Reset: page.Reset,
		Query: catalog.QueryString(s.view),
	}
}

func (s *Session) feedLocked() Feed {
	return Feed{
		Window: s.feed.Apply(s.matchesLocked()),
		Query:  catalog.QueryString(s.view),
	}
}

// # Detail View

/*
OpenDetail shows a listing in the detail view.

Description: The listing is added to the recently viewed list and the view is
tracked. Recording failures are logged, never returned. The shareable query
gains the car parameter while the view is open.

Parameters:
  - ctx: context.Context
  - vehicleID: string

Returns:
  - detail.State
  - error: NotFound for unknown listings
*/
func (s *Session) OpenDetail(ctx context.Context, vehicleID string) (detail.State, error) {
	s.mu.Lock()
	state, err := s.detail.Open(ctx, vehicleID)
	if err != nil {
		s.mu.Unlock()
		return state, err
	}
	s.view.VehicleID = state.VehicleID
	s.mu.Unlock()

	if err := s.visitor.RecordViewed(ctx, state.VehicleID); err != nil {
		s.logger.Warn("visitor_record_failed", zap.String("session_id", s.id), zap.Error(err))
	}
	if _, err := s.visitor.TrackView(ctx, visitor.SubjectVehicle, state.VehicleID, PageInventory); err != nil {
		s.logger.Warn("visitor_track_failed", zap.String("session_id", s.id), zap.Error(err))
	}

	return state, nil
}

// CloseDetail hides the detail view.
func (s *Session) CloseDetail(ctx context.Context) (detail.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.VehicleID = ""
	return s.detail.Close(ctx)
}

// Detail returns the detail view state.
func (s *Session) Detail() detail.State {
	return s.detail.State()
}

// NextImage advances the carousel.
func (s *Session) NextImage() (detail.State, error) {
	return s.detail.Next()
}

// PreviousImage moves the carousel back.
func (s *Session) PreviousImage() (detail.State, error) {
	return s.detail.Previous()
}

// GoToImage jumps to image index.
func (s *Session) GoToImage(index int) (detail.State, error) {
	return s.detail.GoTo(index)
}

// PauseCarousel suspends auto-advance.
func (s *Session) PauseCarousel() (detail.State, error) {
	return s.detail.Pause()
}

// ResumeCarousel restarts auto-advance.
func (s *Session) ResumeCarousel() (detail.State, error) {
	return s.detail.Resume()
}

// # Favorites & Saved

// ToggleFavorite flips a listing in the favorites and reports the new membership.
func (s *Session) ToggleFavorite(ctx context.Context, vehicleID string) (bool, error) {
	if _, err := s.catalog.Get(ctx, vehicleID); err != nil {
		return false, err
	}
	return s.visitor.ToggleFavorite(ctx, vehicleID)
}

// Favorites returns the favorite listings still in the catalog.
func (s *Session) Favorites(ctx context.Context) ([]catalog.Vehicle, error) {
	return s.resolve(s.visitor.Favorites(ctx))
}

// ToggleSaved flips a listing in the saved list and reports the new membership.
func (s *Session) ToggleSaved(ctx context.Context, vehicleID string) (bool, error) {
	if _, err := s.catalog.Get(ctx, vehicleID); err != nil {
		return false, err
	}
	return s.visitor.ToggleSaved(ctx, vehicleID)
}

// Saved returns the saved listings still in the catalog.
func (s *Session) Saved(ctx context.Context) ([]catalog.Vehicle, error) {
	return s.resolve(s.visitor.Saved(ctx))
}

// RecentlyViewed returns the recently opened listings, most recent first.
func (s *Session) RecentlyViewed(ctx context.Context) ([]catalog.Vehicle, error) {
	return s.resolve(s.visitor.RecentlyViewed(ctx))
}

func (s *Session) resolve(ids []string, err error) ([]catalog.Vehicle, error) {
	if err != nil {
		return nil, err
	}
	return s.catalog.Store().Resolve(ids), nil
}

// # Contact

/*
Submit sends the contact form.

Description: The pending record is stored in the visitor's history at once.
When delivery settles the history is updated, a submission event and a notice
are published, and a failure is logged. A result that settles after the
session closed is discarded.

Parameters:
  - ctx: context.Context
  - form: contact.Form

Returns:
  - contact.Record: The pending record with its ticket
  - error: VALIDATION_ERROR for invalid payloads
*/
func (s *Session) Submit(ctx context.Context, form contact.Form) (contact.Record, error) {
	record, err := s.dispatcher.Submit(ctx, form, s.settled)
	if err != nil {
		return contact.Record{}, err
	}

	s.mu.Lock()
	s.tickets[record.Ticket] = struct{}{}
	s.mu.Unlock()

	if err := s.visitor.RecordSubmission(ctx, record); err != nil {
		s.logger.Warn("visitor_record_failed", zap.String("session_id", s.id), zap.Error(err))
	}
	return record, nil
}

// PrefillContact builds the initial form from inquiry and car link parameters.
func (s *Session) PrefillContact(values url.Values) contact.Form {
	return contact.Prefill(values, s.catalog.Store().Has)
}

// Submission returns the current record of one of this session's tickets.
func (s *Session) Submission(ctx context.Context, ticket string) (contact.Record, error) {
	s.mu.Lock()
	_, ok := s.tickets[ticket]
	s.mu.Unlock()

	if !ok {
		return contact.Record{}, apperr.NotFound("Submission")
	}
	return s.dispatcher.Status(ctx, ticket)
}

// Submissions returns the visitor's contact history.
func (s *Session) Submissions(ctx context.Context) ([]contact.Record, error) {
	return s.visitor.Submissions(ctx)
}

// settled runs on the dispatcher's timer goroutine.
func (s *Session) settled(record contact.Record) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		s.logger.Debug("submission_discarded",
			zap.String("session_id", s.id),
			zap.String("ticket", record.Ticket),
		)
		return
	}

	if err := s.visitor.RecordSubmission(context.Background(), record); err != nil {
		s.logger.Warn("visitor_record_failed", zap.String("session_id", s.id), zap.Error(err))
	}

	s.notifier.Publish(s.id, EventSubmission, record)
	if failure := contact.Failure(record); failure != nil {
		s.Notify(Notice{Level: LevelError, Message: failure.Error()})
		return
	}
	s.Notify(Notice{Level: LevelSuccess, Message: contact.SuccessMessage})
}

// Notify publishes a notice to the session's subscribers.
func (s *Session) Notify(notice Notice) {
	s.notifier.Publish(s.id, EventNotice, notice)
}

// # Video Hub

// Videos returns the visible part of the video hub.
func (s *Session) Videos(ctx context.Context) VideoFeed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoFeedLocked()
}

// SetVideoView changes the category, sort or search of the hub and collapses the feed.
func (s *Session) SetVideoView(ctx context.Context, view video.View) VideoFeed {
	s.mu.Lock()
	defer s.mu.Unlock()

	view = view.Normalize()
	view.VideoID = s.videoView.VideoID
	s.videoView = view
	s.videoFeed.Reset()
	return s.videoFeedLocked()
}

// LoadMoreVideos grows the visible part of the hub by one step.
func (s *Session) LoadMoreVideos(ctx context.Context) VideoFeed {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.videoFeed.LoadMore()
	return s.videoFeedLocked()
}

// OpenVideo opens the player on a video and tracks the view.
func (s *Session) OpenVideo(ctx context.Context, id string) (video.Detail, error) {
	player, err := s.videos.Get(ctx, id)
	if err != nil {
		return video.Detail{}, err
	}

	s.mu.Lock()
	s.videoView.VideoID = player.Video.ID
	s.mu.Unlock()

	if _, err := s.visitor.TrackView(ctx, visitor.SubjectVideo, player.Video.ID, PageVideos); err != nil {
		s.logger.Warn("visitor_track_failed", zap.String("session_id", s.id), zap.Error(err))
	}
	return player, nil
}

// CloseVideo closes the player.
func (s *Session) CloseVideo(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoView.VideoID = ""
}

func (s *Session) videoFeedLocked() VideoFeed {
	return VideoFeed{
		Window: s.videoFeed.Apply(s.videos.Apply(s.videoView)),
		View:   s.videoView,
		Query:  video.QueryString(s.videoView),
	}
}

// # Lifecycle

// touch records activity for the idle janitor.
func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Close stops the carousel timer and disconnects subscribers. Pending
// submissions settle but their results are discarded, and tickets can no
// longer be looked up through the session.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.tickets = make(map[string]struct{})
	s.mu.Unlock()

	s.detail.Stop()
	s.notifier.CloseTopic(s.id)
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

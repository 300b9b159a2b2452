// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/detail"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/internal/storage"
	"github.com/taibuivan/autoluxe/internal/video"
	"github.com/taibuivan/autoluxe/internal/visitor"
	"github.com/taibuivan/autoluxe/pkg/pagination"
	"github.com/taibuivan/autoluxe/pkg/uuid"
)

// Dependencies are the collaborators shared by every session.
type Dependencies struct {
	Catalog    *catalog.Service
	Videos     *video.Service
	Dispatcher *contact.Dispatcher
	Store      storage.Store
	Notifier   Notifier
	Logger     *zap.Logger
}

// # Options

// Option configures a [Manager].
type Option func(*Manager)

// WithPageSize sets the inventory page size.
func WithPageSize(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.pageSize = size
		}
	}
}

// WithIdleTimeout sets how long an untouched session survives.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		if timeout > 0 {
			m.idleTimeout = timeout
		}
	}
}

// WithCarouselInterval sets the detail view auto-advance period.
func WithCarouselInterval(interval time.Duration) Option {
	return func(m *Manager) { m.carouselInterval = interval }
}

// WithClock replaces the clock behind idle tracking, the sweep ticker and the detail view timers.
func WithClock(timers clockwork.Clock) Option {
	return func(m *Manager) { m.timers = timers }
}

// # Manager

// Manager owns the live sessions and expires idle ones.
type Manager struct {
	deps             Dependencies
	pageSize         int
	idleTimeout      time.Duration
	carouselInterval time.Duration
	timers           clockwork.Clock

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty manager.
func NewManager(deps Dependencies, opts ...Option) *Manager {
	manager := &Manager{
		deps:             deps,
		pageSize:         constants.InventoryPageSize,
		idleTimeout:      30 * time.Minute,
		carouselInterval: constants.CarouselInterval,
		timers:           clockwork.NewRealClock(),
		sessions:         make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

/*
Create starts a session.

Description: A valid visitorID resumes that visitor's persisted state; anything
else starts a new visitor. Filter and sort parameters in query win over saved
filters. Without any, the saved filters are restored. A car parameter opens
the detail view; an unknown car is ignored.

Parameters:
  - ctx: context.Context
  - visitorID: string (Optional)
  - query: url.Values (Shared link parameters)

Returns:
  - *Session
  - error: Persistence failures
*/
func (m *Manager) Create(ctx context.Context, visitorID string, query url.Values) (*Session, error) {
	if !uuid.Valid(visitorID) {
		visitorID = uuid.New()
	}

	id := uuid.New()
	logger := m.deps.Logger.With(zap.String("session_id", id))
	now := m.timers.Now()

	session := &Session{
		id:         id,
		createdAt:  now.UTC(),
		catalog:    m.deps.Catalog,
		videos:     m.deps.Videos,
		dispatcher: m.deps.Dispatcher,
		visitor:    visitor.New(visitorID, m.deps.Store, m.deps.Logger),
		notifier:   m.deps.Notifier,
		logger:     logger,
		pager:      pagination.NewPaged[catalog.Vehicle](m.pageSize),
		feed:       pagination.NewIncremental[catalog.Vehicle](m.pageSize),
		videoView:  video.DefaultView(),
		videoFeed:  pagination.NewIncremental[video.Video](constants.VideoPageSize),
		tickets:    make(map[string]struct{}),
		lastSeen:   now,
	}

	session.detail = detail.New(m.deps.Catalog.Store(),
		detail.WithClock(m.timers),
		detail.WithInterval(m.carouselInterval),
		detail.WithListener(func(change detail.Change) {
			session.notifier.Publish(session.id, EventDetail, change)
		}),
	)

	view := catalog.Decode(query)
	if !hasListingParams(query) {
		saved, found, err := session.visitor.LoadFilters(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			view.Criteria = saved
		}
	}
	session.view = catalog.View{Criteria: view.Criteria, Sort: view.Sort}

	if view.VehicleID != "" {
		if _, err := session.OpenDetail(ctx, view.VehicleID); err != nil {
			logger.Info("session_car_ignored", zap.String("vehicle_id", view.VehicleID), zap.Error(err))
		}
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	logger.Info("session_created", zap.String("visitor_id", visitorID))
	return session, nil
}

// Get returns a live session and marks it active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("Session")
	}
	session.touch(m.timers.Now())
	return session, nil
}

// Delete ends a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return apperr.NotFound("Session")
	}
	session.Close()
	m.deps.Logger.Info("session_closed", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep ends every session idle for longer than the timeout and returns how many.
func (m *Manager) Sweep() int {
	now := m.timers.Now()

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.idleSince(now) > m.idleTimeout {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		m.deps.Logger.Info("sessions_expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is cancelled, then closes the rest.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := m.timers.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.Chan():
			m.Sweep()
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// listingParams are the link parameters that replace saved filters.
var listingParams = []string{
	catalog.ParamSearch, catalog.ParamBrands, catalog.ParamBrand,
	catalog.ParamMinPrice, catalog.ParamMaxPrice, catalog.ParamMinYear, catalog.ParamMaxYear,
	catalog.ParamTransmissions, catalog.ParamFuelTypes, catalog.ParamBodyTypes,
	catalog.ParamFeatures, catalog.ParamLocation, catalog.ParamSort,
}

func hasListingParams(query url.Values) bool {
	for _, key := range listingParams {
		if query.Get(key) != "" {
			return true
		}
	}
	return false
}

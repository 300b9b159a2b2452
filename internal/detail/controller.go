// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package detail implements the vehicle detail view: a modal that is either closed
or open on one listing, with an auto-advancing image carousel.

# State Machine

	closed --open--> open(id, 0)
	open   --open--> open(id', 0)   (selecting another listing recreates the view)
	open   --close-> closed

While open with more than one image and not paused, a single timer advances the
carousel every interval. Every manual move rebases that timer through one
authoritative reset, and a generation counter discards fires that raced a reset.

Every [Change] carries a sequence number taken under the controller's lock.
Listeners see sequences in increasing order; a change that loses the race to a
newer one is dropped rather than delivered late.
*/
package detail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/looplab/fsm"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
)

// # States & Events

// Status is the modal state.
type Status string

const (
	StatusClosed Status = "closed"
	StatusOpen   Status = "open"
)

const (
	eventOpen  = "open"
	eventClose = "close"
)

// Reason explains why a [Change] was emitted.
type Reason string

const (
	ReasonOpened    Reason = "opened"
	ReasonClosed    Reason = "closed"
	ReasonNavigated Reason = "navigated"
	ReasonAdvanced  Reason = "advanced"
	ReasonPaused    Reason = "paused"
	ReasonResumed   Reason = "resumed"
)

// FieldIndex names the carousel position in validation errors.
const FieldIndex = "index"

// ErrNotOpen is returned by carousel operations while the view is closed.
var ErrNotOpen = apperr.ValidationError("Detail view is not open")

// # Snapshot

// State is a read-only snapshot of the view.
type State struct {
	Status      Status            `json:"status"`
	VehicleID   string            `json:"vehicle_id,omitempty"`
	Vehicle     *catalog.Vehicle  `json:"vehicle,omitempty"`
	Index       int               `json:"index"`
	ImageCount  int               `json:"image_count"`
	Image       string            `json:"image,omitempty"`
	Paused      bool              `json:"paused"`
	AutoAdvance bool              `json:"auto_advance"` // A timer is currently scheduled
	Similar     []catalog.Vehicle `json:"similar,omitempty"`
}

// Change is delivered to the [Listener] after every transition.
type Change struct {
	Sequence uint64 `json:"sequence"` // Increases with every transition of one controller
	Reason   Reason `json:"reason"`
	State    State  `json:"state"`
}

// Listener observes the view. It is called outside the controller's lock,
// one change at a time, in sequence order.
type Listener func(Change)

// Lookup is the catalog surface the controller needs.
type Lookup interface {
	Get(id string) (catalog.Vehicle, error)
	All() []catalog.Vehicle
}

// # Options

// Option configures a [Controller].
type Option func(*Controller)

// WithClock replaces the real clock, typically with a [clockwork.FakeClock] in tests.
func WithClock(timers clockwork.Clock) Option {
	return func(c *Controller) { c.timers = timers }
}

// WithInterval sets the auto-advance period.
func WithInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithListener registers the change observer.
func WithListener(listener Listener) Option {
	return func(c *Controller) { c.listener = listener }
}

// WithSimilarLimit caps the similar listings shown under the gallery.
func WithSimilarLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.similarLimit = limit
		}
	}
}

// # Controller

// Controller owns one visitor's detail view. It is safe for concurrent use.
type Controller struct {
	mu           sync.Mutex
	machine      *fsm.FSM
	lookup       Lookup
	timers       clockwork.Clock
	interval     time.Duration
	listener     Listener
	similarLimit int

	deliverMu sync.Mutex
	delivered uint64

	vehicle    catalog.Vehicle
	index      int
	paused     bool
	similar    []catalog.Vehicle
	timer      clockwork.Timer
	generation uint64
	sequence   uint64
}

// New returns a closed controller.
func New(lookup Lookup, opts ...Option) *Controller {
	controller := &Controller{
		lookup:       lookup,
		timers:       clockwork.NewRealClock(),
		interval:     constants.CarouselInterval,
		similarLimit: constants.SimilarLimit,
	}
	for _, opt := range opts {
		opt(controller)
	}

	controller.machine = fsm.NewFSM(
		string(StatusClosed),
		fsm.Events{
			{Name: eventOpen, Src: []string{string(StatusClosed), string(StatusOpen)}, Dst: string(StatusOpen)},
			{Name: eventClose, Src: []string{string(StatusOpen)}, Dst: string(StatusClosed)},
		},
		fsm.Callbacks{},
	)

	return controller
}

/*
Open shows the listing id at its first image.

Description: Opening while another listing is shown replaces it. An unknown id
returns NotFound and leaves the current state untouched.

Parameters:
  - ctx: context.Context
  - id: string (Vehicle ID)

Returns:
  - State: The new snapshot
  - error: NotFound for unknown listings
*/
func (c *Controller) Open(ctx context.Context, id string) (State, error) {
	vehicle, err := c.lookup.Get(id)
	if err != nil {
		return c.State(), err
	}

	c.mu.Lock()
	if err := c.fire(ctx, eventOpen); err != nil {
		c.mu.Unlock()
		return c.State(), err
	}

	c.vehicle = vehicle
	c.index = 0
	c.paused = false
	c.similar = catalog.Similar(c.lookup.All(), vehicle, c.similarLimit)
	c.resetTimer()

	change := c.changeLocked(ReasonOpened)
	c.mu.Unlock()

	c.notify(change)
	return change.State, nil
}

// Close hides the view and cancels the timer. Closing a closed view is a no-op.
func (c *Controller) Close(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.machine.Is(string(StatusClosed)) {
		state := c.snapshotLocked()
		c.mu.Unlock()
		return state, nil
	}

	if err := c.fire(ctx, eventClose); err != nil {
		c.mu.Unlock()
		return c.State(), err
	}

	c.vehicle = catalog.Vehicle{}
	c.index = 0
	c.paused = false
	c.similar = nil
	c.resetTimer()

	change := c.changeLocked(ReasonClosed)
	c.mu.Unlock()

	c.notify(change)
	return change.State, nil
}

// Next moves to the following image, wrapping to the first.
func (c *Controller) Next() (State, error) {
	return c.navigate(func(index, count int) int { return (index + 1) % count })
}

// Previous moves to the preceding image, wrapping to the last.
func (c *Controller) Previous() (State, error) {
	return c.navigate(func(index, count int) int { return (index - 1 + count) % count })
}

// GoTo jumps to image index. An index outside the gallery is a validation error.
func (c *Controller) GoTo(index int) (State, error) {
	return c.navigate(func(int, int) int { return index })
}

// Pause suspends auto-advance, e.g. while the pointer hovers the gallery.
func (c *Controller) Pause() (State, error) {
	return c.setPaused(true, ReasonPaused)
}

// Resume restarts auto-advance with a full interval.
func (c *Controller) Resume() (State, error) {
	return c.setPaused(false, ReasonResumed)
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Stop cancels any pending timer without emitting a change; used when the owning session ends.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// # Internals

func (c *Controller) navigate(move func(index, count int) int) (State, error) {
	c.mu.Lock()
	if !c.machine.Is(string(StatusOpen)) {
		state := c.snapshotLocked()
		c.mu.Unlock()
		return state, ErrNotOpen
	}

	next := move(c.index, len(c.vehicle.Images))
	if next < 0 || next >= len(c.vehicle.Images) {
		state := c.snapshotLocked()
		c.mu.Unlock()
		return state, apperr.ValidationError("Image index out of range",
			apperr.FieldError{Field: FieldIndex, Message: "must be within the gallery"})
	}

	c.index = next
	c.resetTimer()

	change := c.changeLocked(ReasonNavigated)
	c.mu.Unlock()

	c.notify(change)
	return change.State, nil
}

func (c *Controller) setPaused(paused bool, reason Reason) (State, error) {
	c.mu.Lock()
	if !c.machine.Is(string(StatusOpen)) {
		state := c.snapshotLocked()
		c.mu.Unlock()
		return state, ErrNotOpen
	}
	if c.paused == paused {
		state := c.snapshotLocked()
		c.mu.Unlock()
		return state, nil
	}

	c.paused = paused
	c.resetTimer()

	change := c.changeLocked(reason)
	c.mu.Unlock()

	c.notify(change)
	return change.State, nil
}

// resetTimer is the only place timers are created or cancelled. Lock must be held.
func (c *Controller) resetTimer() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if !c.machine.Is(string(StatusOpen)) || c.paused || len(c.vehicle.Images) < 2 {
		return
	}

	generation := c.generation
	c.timer = c.timers.AfterFunc(c.interval, func() { c.advance(generation) })
}

// advance runs on the timer goroutine.
func (c *Controller) advance(generation uint64) {
	c.mu.Lock()
	if generation != c.generation || !c.machine.Is(string(StatusOpen)) {
		c.mu.Unlock()
		return
	}

	c.index = (c.index + 1) % len(c.vehicle.Images)
	c.timer = nil
	c.resetTimer()

	change := c.changeLocked(ReasonAdvanced)
	c.mu.Unlock()

	c.notify(change)
}

func (c *Controller) fire(ctx context.Context, event string) error {
	err := c.machine.Event(ctx, event)

	var noTransition fsm.NoTransitionError
	if err == nil || errors.As(err, &noTransition) {
		return nil
	}
	return apperr.ValidationError("Detail view cannot " + event + " from " + c.machine.Current())
}

func (c *Controller) snapshotLocked() State {
	if !c.machine.Is(string(StatusOpen)) {
		return State{Status: StatusClosed}
	}

	vehicle := c.vehicle
	return State{
		Status:      StatusOpen,
		VehicleID:   vehicle.ID,
		Vehicle:     &vehicle,
		Index:       c.index,
		ImageCount:  len(vehicle.Images),
		Image:       vehicle.Images[c.index],
		Paused:      c.paused,
		AutoAdvance: c.timer != nil,
		Similar:     append([]catalog.Vehicle(nil), c.similar...),
	}
}

func (c *Controller) changeLocked(reason Reason) Change {
	c.sequence++
	return Change{Sequence: c.sequence, Reason: reason, State: c.snapshotLocked()}
}

// notify delivers change unless a newer one already went out.
func (c *Controller) notify(change Change) {
	if c.listener == nil {
		return
	}

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	if change.Sequence <= c.delivered {
		return
	}
	c.delivered = change.Sequence
	c.listener(change)
}

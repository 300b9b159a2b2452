// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/internal/platform/phone"
	"github.com/taibuivan/autoluxe/pkg/uuid"
)

// FailureMessage is shown to the visitor when a delivery fails.
const FailureMessage = "Message could not be sent. Please try again."

// SuccessMessage is shown to the visitor when a delivery succeeds.
const SuccessMessage = "Message sent successfully! We will contact you soon."

// Lookup resolves the optional vehicle reference.
type Lookup interface {
	Get(id string) (catalog.Vehicle, error)
}

// Completion is called once per submission when its delivery settles.
type Completion func(Record)

// # Options

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithClock replaces the real clock.
func WithClock(timers clockwork.Clock) Option {
	return func(d *Dispatcher) { d.timers = timers }
}

// WithRetention sets how long a settled record can still be looked up by ticket.
func WithRetention(retention time.Duration) Option {
	return func(d *Dispatcher) {
		if retention > 0 {
			d.retention = retention
		}
	}
}

// WithDelay sets the simulated delivery latency.
func WithDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		if delay >= 0 {
			d.delay = delay
		}
	}
}

// WithFailureRate sets the probability in [0, 1] that a delivery fails.
func WithFailureRate(rate float64) Option {
	return func(d *Dispatcher) {
		d.failureRate = min(max(rate, 0), 1)
	}
}

// WithRoll replaces the random source; it must return values in [0, 1).
func WithRoll(roll func() float64) Option {
	return func(d *Dispatcher) { d.roll = roll }
}

// # Dispatcher

// Dispatcher validates submissions and settles them after a delay.
// There is no retry and no cancellation once a submission is accepted.
// Settled records are forgotten after the retention window; the visitor's
// history is the durable copy.
type Dispatcher struct {
	validator   *Validator
	lookup      Lookup
	logger      *zap.Logger
	timers      clockwork.Clock
	delay       time.Duration
	retention   time.Duration
	failureRate float64
	roll        func() float64

	mu      sync.RWMutex
	records map[string]Record
}

// NewDispatcher returns a dispatcher with the default two second delay and no failures.
func NewDispatcher(lookup Lookup, logger *zap.Logger, opts ...Option) *Dispatcher {
	dispatcher := &Dispatcher{
		validator: NewValidator(),
		lookup:    lookup,
		logger:    logger,
		timers:    clockwork.NewRealClock(),
		delay:     constants.SubmissionDelay,
		retention: constants.SubmissionRetention,
		roll:      rand.Float64,
		records:   make(map[string]Record),
	}
	for _, opt := range opts {
		opt(dispatcher)
	}
	return dispatcher
}

/*
Submit validates the form and schedules its simulated delivery.

Description: The returned record is pending. When the delay elapses the record
becomes delivered or failed and done receives it. Phone numbers are stored in
E.164 form.

Parameters:
  - ctx: context.Context
  - form: Form (Visitor payload)
  - done: Completion (May be nil)

Returns:
  - Record: The pending submission with its ticket
  - error: VALIDATION_ERROR for invalid payloads or unknown vehicles
*/
func (dispatcher *Dispatcher) Submit(ctx context.Context, form Form, done Completion) (Record, error) {
	form = form.Trim()
	if err := dispatcher.validator.Struct(form); err != nil {
		return Record{}, err
	}

	record := Record{
		Ticket:      uuid.New(),
		Name:        form.Name,
		Phone:       phone.NormalizeE164(form.Phone),
		Email:       form.Email,
		MessageType: form.MessageType,
		Message:     form.Message,
		Attachments: form.Attachments,
		Status:      StatusPending,
		SubmittedAt: dispatcher.timers.Now().UTC(),
	}

	if form.VehicleID != "" && form.VehicleID != VehicleOther {
		vehicle, err := dispatcher.lookup.Get(form.VehicleID)
		if err != nil {
			return Record{}, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: "vehicle_id", Message: "Unknown vehicle"})
		}
		record.VehicleID = vehicle.ID
		record.VehicleTitle = vehicle.Title()
	}

	dispatcher.mu.Lock()
	dispatcher.records[record.Ticket] = record
	dispatcher.mu.Unlock()

	dispatcher.logger.Info("submission_accepted",
		zap.String("ticket", record.Ticket),
		zap.String("message_type", string(record.MessageType)),
	)

	dispatcher.timers.AfterFunc(dispatcher.delay, func() { dispatcher.settle(record.Ticket, done) })
	return record, nil
}

// Status returns the current record of a ticket.
func (dispatcher *Dispatcher) Status(ctx context.Context, ticket string) (Record, error) {
	dispatcher.mu.RLock()
	defer dispatcher.mu.RUnlock()

	record, ok := dispatcher.records[ticket]
	if !ok {
		return Record{}, apperr.NotFound("Submission")
	}
	return record, nil
}

// forget drops a settled record once its retention window has passed.
func (dispatcher *Dispatcher) forget(ticket string) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	delete(dispatcher.records, ticket)
}

// Len returns the number of records still held.
func (dispatcher *Dispatcher) Len() int {
	dispatcher.mu.RLock()
	defer dispatcher.mu.RUnlock()
	return len(dispatcher.records)
}

// Failure returns the error a failed record represents, or nil.
func Failure(record Record) error {
	if record.Status != StatusFailed {
		return nil
	}
	return apperr.SubmissionFailed(record.Error)
}

func (dispatcher *Dispatcher) settle(ticket string, done Completion) {
	dispatcher.mu.Lock()
	record, ok := dispatcher.records[ticket]
	if !ok || record.Status != StatusPending {
		dispatcher.mu.Unlock()
		return
	}

	completed := dispatcher.timers.Now().UTC()
	record.CompletedAt = &completed
	if dispatcher.failureRate > 0 && dispatcher.roll() < dispatcher.failureRate {
		record.Status = StatusFailed
		record.Error = FailureMessage
	} else {
		record.Status = StatusDelivered
	}
	dispatcher.records[ticket] = record
	dispatcher.mu.Unlock()

	dispatcher.timers.AfterFunc(dispatcher.retention, func() { dispatcher.forget(ticket) })

	if record.Status == StatusFailed {
		dispatcher.logger.Warn("submission_failed", zap.String("ticket", ticket))
	} else {
		dispatcher.logger.Info("submission_delivered", zap.String("ticket", ticket))
	}

	if done != nil {
		done(record)
	}
}

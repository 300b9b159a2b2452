// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/platform/apperr"
)

func validForm() contact.Form {
	return contact.Form{
		Name:        "Wanjiru Kamau",
		Phone:       "0712 345 678",
		Email:       "wanjiru@example.co.ke",
		MessageType: contact.TypeTestDrive,
		VehicleID:   "BMW-M3-2023-001",
		Message:     "Is the M3 available for a test drive on Saturday?",
		Agreement:   true,
	}
}

func loadCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Default()
	require.NoError(t, err)
	return store
}

// collector gathers completions from the timer callback.
type collector struct {
	mu      sync.Mutex
	records []contact.Record
}

func (c *collector) done(record contact.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
}

func (c *collector) all() []contact.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]contact.Record(nil), c.records...)
}

// settled waits for n completions; they arrive on the fake clock's goroutines.
func (c *collector) settled(t *testing.T, n int) []contact.Record {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.all()) == n }, time.Second, time.Millisecond)
	return c.all()
}

/*
TestValidator verifies the field rules and the JSON field names in errors.
*/
func TestValidator(t *testing.T) {
	validator := contact.NewValidator()
	require.NoError(t, validator.Struct(validForm()))

	tests := []struct {
		name    string
		mutate  func(form *contact.Form)
		field   string
		message string
	}{
		{"missing_name", func(f *contact.Form) { f.Name = "" }, "name", "This field is required"},
		{"bad_email", func(f *contact.Form) { f.Email = "wanjiru@" }, "email", "Please enter a valid email address"},
		{"bad_phone", func(f *contact.Form) { f.Phone = "12345" }, "phone", "Please enter a valid Kenyan phone number"},
		{"unknown_type", func(f *contact.Form) { f.MessageType = "complaint" }, "message_type", "Must be one of: inquiry, test-drive, financing, maintenance, sell, other"},
		{"no_agreement", func(f *contact.Form) { f.Agreement = false }, "agreement", "Please agree to the privacy policy and terms of service"},
		{"attachment_name", func(f *contact.Form) {
			f.Attachments = []contact.Attachment{{Name: "", Size: 10}}
		}, "attachments[0].name", "This field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := validator.Struct(form)
			require.Error(t, err)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
			assert.Equal(t, tt.message, appErr.Details[0].Message)
		})
	}
}

/*
TestDispatcher_Delivers verifies the delay and the pending to delivered transition.
*/
func TestDispatcher_Delivers(t *testing.T) {
	timers := clockwork.NewFakeClock()
	results := &collector{}
	dispatcher := contact.NewDispatcher(loadCatalog(t), zap.NewNop(),
		contact.WithClock(timers),
		contact.WithDelay(2*time.Second),
	)
	ctx := context.Background()

	record, err := dispatcher.Submit(ctx, validForm(), results.done)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusPending, record.Status)
	assert.Equal(t, "+254712345678", record.Phone)
	assert.Equal(t, "2023 BMW M3 Competition", record.VehicleTitle)
	assert.NotEmpty(t, record.Ticket)

	timers.Advance(1999 * time.Millisecond)
	assert.Empty(t, results.all())

	timers.Advance(time.Millisecond)
	delivered := results.settled(t, 1)
	assert.Equal(t, contact.StatusDelivered, delivered[0].Status)
	assert.NoError(t, contact.Failure(delivered[0]))

	status, err := dispatcher.Status(ctx, record.Ticket)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusDelivered, status.Status)
	assert.NotNil(t, status.CompletedAt)

	_, err = dispatcher.Status(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestDispatcher_Fails verifies the simulated failure outcome.
*/
func TestDispatcher_Fails(t *testing.T) {
	timers := clockwork.NewFakeClock()
	results := &collector{}
	dispatcher := contact.NewDispatcher(loadCatalog(t), zap.NewNop(),
		contact.WithClock(timers),
		contact.WithFailureRate(0.5),
		contact.WithRoll(func() float64 { return 0.1 }),
	)

	_, err := dispatcher.Submit(context.Background(), validForm(), results.done)
	require.NoError(t, err)
	timers.Advance(time.Minute)

	failed := results.settled(t, 1)[0]
	assert.Equal(t, contact.StatusFailed, failed.Status)
	assert.Equal(t, contact.FailureMessage, failed.Error)
	assert.True(t, apperr.HasCode(contact.Failure(failed), apperr.CodeSubmissionFailed))
}

/*
TestDispatcher_Rejects verifies that invalid forms never schedule a delivery.
*/
func TestDispatcher_Rejects(t *testing.T) {
	dispatcher := contact.NewDispatcher(loadCatalog(t), zap.NewNop(), contact.WithClock(clockwork.NewFakeClock()))

	form := validForm()
	form.VehicleID = "MISSING-001"
	_, err := dispatcher.Submit(context.Background(), form, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	form = validForm()
	form.Email = ""
	_, err = dispatcher.Submit(context.Background(), form, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	assert.Equal(t, 0, dispatcher.Len())

	// "other" is a valid selection with no vehicle attached.
	form = validForm()
	form.VehicleID = contact.VehicleOther
	record, err := dispatcher.Submit(context.Background(), form, nil)
	require.NoError(t, err)
	assert.Empty(t, record.VehicleID)
	assert.Equal(t, 1, dispatcher.Len())
}

/*
TestDispatcher_ForgetsSettledRecords verifies that a settled record is dropped
after the retention window while a pending one is kept.
*/
func TestDispatcher_ForgetsSettledRecords(t *testing.T) {
	timers := clockwork.NewFakeClock()
	results := &collector{}
	dispatcher := contact.NewDispatcher(loadCatalog(t), zap.NewNop(),
		contact.WithClock(timers),
		contact.WithDelay(time.Second),
		contact.WithRetention(time.Minute),
	)
	ctx := context.Background()

	record, err := dispatcher.Submit(ctx, validForm(), results.done)
	require.NoError(t, err)

	// Pending records are never evicted, however long delivery takes.
	timers.Advance(999 * time.Millisecond)
	assert.Equal(t, 1, dispatcher.Len())

	timers.Advance(time.Millisecond)
	results.settled(t, 1)

	timers.Advance(time.Minute - time.Millisecond)
	status, err := dispatcher.Status(ctx, record.Ticket)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusDelivered, status.Status)

	timers.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return dispatcher.Len() == 0 }, time.Second, time.Millisecond)

	_, err = dispatcher.Status(ctx, record.Ticket)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestPrefill verifies the inquiry and car URL parameters.
*/
func TestPrefill(t *testing.T) {
	store := loadCatalog(t)

	form := contact.Prefill(url.Values{"inquiry": {"financing"}, "car": {"AUDI-Q7-2022-001"}}, store.Has)
	assert.Equal(t, contact.TypeFinancing, form.MessageType)
	assert.Equal(t, "AUDI-Q7-2022-001", form.VehicleID)

	form = contact.Prefill(url.Values{"inquiry": {"complaint"}, "car": {"MISSING-001"}}, store.Has)
	assert.Empty(t, form.MessageType)
	assert.Empty(t, form.VehicleID)
}

/*
TestBuildAutoReply verifies the acknowledgement text and mailto link.
*/
func TestBuildAutoReply(t *testing.T) {
	reply := contact.BuildAutoReply(contact.Record{
		Name:         "Wanjiru Kamau",
		Phone:        "+254712345678",
		Email:        "wanjiru@example.co.ke",
		MessageType:  contact.TypeTestDrive,
		VehicleTitle: "2023 BMW M3 Competition",
	}, "+254712345678")

	assert.Equal(t, "Thank you for contacting AutoLuxe Kenya - Test Drive", reply.Subject)
	assert.Contains(t, reply.Body, "We have received your test drive inquiry.")
	assert.Contains(t, reply.Body, "- Car: 2023 BMW M3 Competition")
	assert.Contains(t, reply.Body, "call us at 0712345678")
	assert.True(t, strings.HasPrefix(reply.Link, "mailto:wanjiru@example.co.ke?subject=Thank%20you"))

	assert.Equal(t, "Financing", contact.TypeFinancing.Label())
}

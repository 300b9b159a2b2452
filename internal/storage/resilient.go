// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
)

// # Options

// Option configures a [Resilient] store.
type Option func(*Resilient)

// WithRetryAfter sets how long a failed namespace stays in memory before the
// primary is tried again.
func WithRetryAfter(interval time.Duration) Option {
	return func(store *Resilient) {
		if interval > 0 {
			store.retryAfter = interval
		}
	}
}

// WithFallbackTTL expires entries written during an outage, normally with the visitor TTL.
func WithFallbackTTL(ttl time.Duration) Option {
	return func(store *Resilient) { store.fallbackTTL = ttl }
}

// WithClock replaces the clock behind retries, fallback expiry and the janitor.
func WithClock(clock clockwork.Clock) Option {
	return func(store *Resilient) { store.clock = clock }
}

// # Resilient

/*
Resilient wraps a primary [Store] and degrades per namespace.

Description: A backend failure in a namespace is logged and that namespace is
served from memory until the retry interval passes. The next call then replays
the writes made during the outage onto the primary and, if that succeeds,
returns the namespace to it. NotFound and validation errors pass through
untouched, as does any error of a caller whose context has ended. Otherwise
StorageUnavailable never reaches the caller except from [Resilient.Ping].
*/
type Resilient struct {
	primary     Store
	fallback    *MemoryStore
	logger      *zap.Logger
	clock       clockwork.Clock
	retryAfter  time.Duration
	fallbackTTL time.Duration

	mu       sync.Mutex
	degraded map[string]*outage
}

// outage tracks one degraded namespace.
type outage struct {
	retryAt     time.Time
	reconciling bool
	version     uint64
	dirty       map[string]uint64 // Keys written to memory, by write version
}

// NewResilient wraps primary with an in-memory fallback.
func NewResilient(primary Store, logger *zap.Logger, opts ...Option) *Resilient {
	store := &Resilient{
		primary:    primary,
		logger:     logger,
		clock:      clockwork.NewRealClock(),
		retryAfter: constants.StorageRetryAfter,
		degraded:   make(map[string]*outage),
	}
	for _, opt := range opts {
		opt(store)
	}
	store.fallback = NewMemoryStore(WithTTL(store.fallbackTTL), WithMemoryClock(store.clock))
	return store
}

// Get implements [Store].
func (store *Resilient) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if store.inOutage(ctx, namespace) {
		return store.fallback.Get(ctx, namespace, key)
	}

	value, err := store.primary.Get(ctx, namespace, key)
	if store.shouldDegrade(ctx, namespace, err) {
		return store.fallback.Get(ctx, namespace, key)
	}
	return value, err
}

// Set implements [Store].
func (store *Resilient) Set(ctx context.Context, namespace, key string, value []byte) error {
	write := func(target Store) error { return target.Set(ctx, namespace, key, value) }
	return store.write(ctx, namespace, key, write)
}

// Delete implements [Store].
func (store *Resilient) Delete(ctx context.Context, namespace, key string) error {
	write := func(target Store) error { return target.Delete(ctx, namespace, key) }
	return store.write(ctx, namespace, key, write)
}

// Ping reports the health of the primary store.
func (store *Resilient) Ping(ctx context.Context) error {
	return store.primary.Ping(ctx)
}

// Degraded reports whether namespace is being served from memory.
func (store *Resilient) Degraded(namespace string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, ok := store.degraded[namespace]
	return ok
}

// Purger is implemented by backends that cannot expire entries on their own.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

/*
RunJanitor does periodic upkeep until ctx is cancelled.

Description: Every interval it purges expired entries from the primary when the
primary is a [Purger], drops expired outage writes from memory, and retries the
namespaces whose outage is due for a retry so that idle namespaces recover too.

Parameters:
  - ctx: context.Context
  - interval: time.Duration
*/
func (store *Resilient) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := store.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			store.sweep(ctx)
		}
	}
}

// # Internals

func (store *Resilient) sweep(ctx context.Context) {
	if purger, ok := store.primary.(Purger); ok {
		removed, err := purger.PurgeExpired(ctx)
		if err != nil {
			store.logger.Warn("storage_purge_failed", zap.Error(unwrapCause(err)))
		} else if removed > 0 {
			store.logger.Info("storage_purged", zap.Int64("count", removed))
		}
	}

	if removed, _ := store.fallback.PurgeExpired(ctx); removed > 0 {
		store.logger.Info("storage_fallback_purged", zap.Int64("count", removed))
	}

	store.mu.Lock()
	namespaces := make([]string, 0, len(store.degraded))
	for namespace := range store.degraded {
		namespaces = append(namespaces, namespace)
	}
	store.mu.Unlock()

	for _, namespace := range namespaces {
		store.inOutage(ctx, namespace)
	}
}

// write runs a Set or Delete. Outage writes land in memory and are marked for replay.
func (store *Resilient) write(ctx context.Context, namespace, key string, op func(Store) error) error {
	if store.inOutage(ctx, namespace) {
		if handled, err := store.writeFallback(namespace, key, op); handled {
			return err
		}
	}

	err := op(store.primary)
	if store.shouldDegrade(ctx, namespace, err) {
		if handled, fallbackErr := store.writeFallback(namespace, key, op); handled {
			return fallbackErr
		}
	}
	return err
}

// writeFallback writes to memory and marks the key for replay. It holds the
// lock across the memory write so a replay never misses a write it raced
// with, and declines when the outage has already ended.
func (store *Resilient) writeFallback(namespace, key string, op func(Store) error) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	current, ok := store.degraded[namespace]
	if !ok {
		return false, nil
	}
	if err := op(store.fallback); err != nil {
		return true, err
	}
	current.version++
	current.dirty[key] = current.version
	return true, nil
}

// inOutage reports whether namespace must be served from memory. When the
// retry interval has passed it replays the outage writes first; one caller
// replays while the others keep using memory.
func (store *Resilient) inOutage(ctx context.Context, namespace string) bool {
	store.mu.Lock()
	current, ok := store.degraded[namespace]
	if !ok {
		store.mu.Unlock()
		return false
	}

	now := store.clock.Now()
	if current.reconciling || now.Before(current.retryAt) {
		store.mu.Unlock()
		return true
	}

	current.reconciling = true
	pending := make(map[string]uint64, len(current.dirty))
	for key, version := range current.dirty {
		pending[key] = version
	}
	store.mu.Unlock()

	err := store.replay(ctx, namespace, pending)

	store.mu.Lock()
	defer store.mu.Unlock()

	current.reconciling = false
	if err != nil {
		// A caller that gave up says nothing about the backend; leave the retry due.
		if !isContextError(ctx, err) {
			current.retryAt = store.clock.Now().Add(store.retryAfter)
			store.logger.Warn("storage_retry_failed",
				zap.String("namespace", namespace),
				zap.Error(unwrapCause(err)),
			)
		}
		return true
	}

	for key, version := range pending {
		if current.dirty[key] == version {
			delete(current.dirty, key)
			_ = store.fallback.Delete(ctx, namespace, key)
		}
	}
	if len(current.dirty) > 0 {
		// Written while replaying; the next call replays those too.
		return true
	}

	delete(store.degraded, namespace)
	store.logger.Info("storage_recovered",
		zap.String("namespace", namespace),
		zap.Int("replayed", len(pending)),
	)
	return false
}

// replay copies the outage writes onto the primary. A key missing from memory
// was deleted, or expired, during the outage.
func (store *Resilient) replay(ctx context.Context, namespace string, keys map[string]uint64) error {
	if len(keys) == 0 {
		return store.primary.Ping(ctx)
	}

	for key := range keys {
		value, err := store.fallback.Get(ctx, namespace, key)
		switch {
		case err == nil:
			err = store.primary.Set(ctx, namespace, key, value)
		case apperr.IsNotFound(err):
			err = store.primary.Delete(ctx, namespace, key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// shouldDegrade starts an outage for namespace when err is a backend failure.
func (store *Resilient) shouldDegrade(ctx context.Context, namespace string, err error) bool {
	if err == nil || apperr.IsNotFound(err) || apperr.HasCode(err, apperr.CodeValidation) {
		return false
	}
	if isContextError(ctx, err) {
		return false
	}

	store.mu.Lock()
	_, already := store.degraded[namespace]
	if !already {
		store.degraded[namespace] = &outage{
			retryAt: store.clock.Now().Add(store.retryAfter),
			dirty:   make(map[string]uint64),
		}
	}
	store.mu.Unlock()

	if !already {
		store.logger.Warn("storage_degraded",
			zap.String("namespace", namespace),
			zap.Duration("retry_after", store.retryAfter),
			zap.Error(unwrapCause(err)),
		)
	}
	return true
}

// isContextError reports a failure caused by the caller giving up, not by the backend.
func isContextError(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// unwrapCause prefers the backend cause over the client-safe message.
func unwrapCause(err error) error {
	if appErr := apperr.As(err); appErr != nil && appErr.Cause != nil {
		return appErr.Cause
	}
	return err
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MemoryOption configures a [MemoryStore].
type MemoryOption func(*MemoryStore)

// WithTTL expires entries ttl after their last write. Zero keeps them forever.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(store *MemoryStore) {
		if ttl > 0 {
			store.ttl = ttl
		}
	}
}

// WithMemoryClock replaces the clock that stamps expiries.
func WithMemoryClock(clock clockwork.Clock) MemoryOption {
	return func(store *MemoryStore) { store.clock = clock }
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // Zero when the entry never expires
}

// MemoryStore keeps values in process memory. The zero value is not usable; call [NewMemoryStore].
type MemoryStore struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu     sync.RWMutex
	values map[string]memoryEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		clock:  clockwork.NewRealClock(),
		values: make(map[string]memoryEntry),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Get implements [Store]. Expired entries read as absent.
func (store *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	if err := validKey(namespace, key); err != nil {
		return nil, err
	}

	store.mu.RLock()
	defer store.mu.RUnlock()

	entry, ok := store.values[Key(namespace, key)]
	if !ok || store.expired(entry, store.clock.Now()) {
		return nil, ErrNotFound()
	}
	return append([]byte(nil), entry.value...), nil
}

// Set implements [Store]. Every write refreshes the TTL.
func (store *MemoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	if err := validKey(namespace, key); err != nil {
		return err
	}

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if store.ttl > 0 {
		entry.expiresAt = store.clock.Now().Add(store.ttl)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.values[Key(namespace, key)] = entry
	return nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	if err := validKey(namespace, key); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.values, Key(namespace, key))
	return nil
}

// Ping implements [Store]. Memory is always reachable.
func (store *MemoryStore) Ping(context.Context) error {
	return nil
}

// PurgeExpired implements [Purger].
func (store *MemoryStore) PurgeExpired(context.Context) (int64, error) {
	now := store.clock.Now()

	store.mu.Lock()
	defer store.mu.Unlock()

	var removed int64
	for key, entry := range store.values {
		if store.expired(entry, now) {
			delete(store.values, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included until purged.
func (store *MemoryStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.values)
}

func (store *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

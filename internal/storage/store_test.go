// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/postgres"
	"github.com/taibuivan/autoluxe/internal/storage"
)

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "visitor-a", "favorites")
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, store.Set(ctx, "visitor-a", "favorites", []byte(`["BMW-M3-2023-001"]`)))
	require.NoError(t, store.Set(ctx, "visitor-b", "favorites", []byte(`[]`)))

	value, err := store.Get(ctx, "visitor-a", "favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `["BMW-M3-2023-001"]`, string(value))

	// Namespaces are isolated.
	value, err = store.Get(ctx, "visitor-b", "favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(value))

	require.NoError(t, store.Set(ctx, "visitor-a", "favorites", []byte(`["AUDI-Q7-2022-001"]`)))
	value, err = store.Get(ctx, "visitor-a", "favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `["AUDI-Q7-2022-001"]`, string(value))

	require.NoError(t, store.Delete(ctx, "visitor-a", "favorites"))
	require.NoError(t, store.Delete(ctx, "visitor-a", "favorites"))
	_, err = store.Get(ctx, "visitor-a", "favorites")
	assert.True(t, apperr.IsNotFound(err))

	err = store.Set(ctx, " ", "favorites", nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	assert.NoError(t, store.Ping(ctx))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "visitor:abc:favorites", storage.Key("abc", "favorites"))
}

/*
TestMemoryStore verifies the in-memory backend and that stored values are copies.
*/
func TestMemoryStore(t *testing.T) {
	store := storage.NewMemoryStore()
	exerciseStore(t, store)

	ctx := context.Background()
	input := []byte("light")
	require.NoError(t, store.Set(ctx, "v", "theme", input))
	input[0] = 'X'

	value, err := store.Get(ctx, "v", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", string(value))
	assert.Equal(t, 2, store.Len())
}

func newRedisStore(t *testing.T, ttl time.Duration) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:        server.Addr(),
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewRedisStore(client, ttl), server
}

/*
TestRedisStore verifies the Redis backend against miniredis.
*/
func TestRedisStore(t *testing.T) {
	store, server := newRedisStore(t, time.Hour)
	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), "abc", "theme", []byte("dark")))
	assert.True(t, server.Exists("visitor:abc:theme"))
	assert.Equal(t, time.Hour, server.TTL("visitor:abc:theme"))

	server.FastForward(2 * time.Hour)
	_, err := store.Get(context.Background(), "abc", "theme")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestRedisStore_Unavailable verifies the error classification of a dead server.
*/
func TestRedisStore_Unavailable(t *testing.T) {
	store, server := newRedisStore(t, 0)
	server.Close()

	ctx := context.Background()
	_, err := store.Get(ctx, "abc", "theme")
	assert.True(t, apperr.HasCode(err, apperr.CodeStorageUnavailable))
	assert.True(t, apperr.HasCode(store.Set(ctx, "abc", "theme", []byte("dark")), apperr.CodeStorageUnavailable))
	assert.True(t, apperr.HasCode(store.Ping(ctx), apperr.CodeStorageUnavailable))
}

/*
TestPostgresStore runs the contract against a real database when one is configured.
*/
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("AUTOLUXE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUTOLUXE_TEST_DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := storage.NewPostgresStore(pool, time.Hour)
	exerciseStore(t, store)

	_, err = store.PurgeExpired(context.Background())
	assert.NoError(t, err)
}

// # Resilient

// brokenStore fails every call the way an unreachable backend does.
type brokenStore struct {
	calls int
}

func (store *brokenStore) Get(context.Context, string, string) ([]byte, error) {
	store.calls++
	return nil, apperr.StorageUnavailable(errors.New("dial tcp: connection refused"))
}

func (store *brokenStore) Set(context.Context, string, string, []byte) error {
	store.calls++
	return apperr.StorageUnavailable(errors.New("dial tcp: connection refused"))
}

func (store *brokenStore) Delete(context.Context, string, string) error {
	store.calls++
	return apperr.StorageUnavailable(errors.New("dial tcp: connection refused"))
}

func (store *brokenStore) Ping(context.Context) error {
	return apperr.StorageUnavailable(errors.New("dial tcp: connection refused"))
}

/*
TestResilient_FallsBackPerNamespace verifies the degrade-once behaviour.
*/
func TestResilient_FallsBackPerNamespace(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	primary := &brokenStore{}
	store := storage.NewResilient(primary, zap.New(core))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "visitor-a", "theme", []byte("dark")))
	assert.True(t, store.Degraded("visitor-a"))
	assert.False(t, store.Degraded("visitor-b"))

	value, err := store.Get(ctx, "visitor-a", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", string(value))

	_, err = store.Get(ctx, "visitor-a", "favorites")
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, store.Delete(ctx, "visitor-a", "theme"))

	// The primary is consulted once, then the namespace stays in memory.
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, logs.FilterMessage("storage_degraded").Len())

	_, err = store.Get(ctx, "visitor-b", "theme")
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 2, logs.FilterMessage("storage_degraded").Len())

	assert.True(t, apperr.HasCode(store.Ping(ctx), apperr.CodeStorageUnavailable))
}

/*
TestResilient_HealthyPrimary verifies that a working backend is used directly.
*/
func TestResilient_HealthyPrimary(t *testing.T) {
	primary := storage.NewMemoryStore()
	store := storage.NewResilient(primary, zap.NewNop())
	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), "v", "theme", []byte("dark")))
	assert.Equal(t, 1, primary.Len())
	assert.False(t, store.Degraded("v"))
}

// purgingStore counts janitor sweeps.
type purgingStore struct {
	*storage.MemoryStore
	purges chan struct{}
}

func (store *purgingStore) PurgeExpired(context.Context) (int64, error) {
	select {
	case store.purges <- struct{}{}:
	default:
	}
	return 1, nil
}

/*
TestResilient_RunJanitor verifies periodic purging and that the janitor stops with its context.
*/
func TestResilient_RunJanitor(t *testing.T) {
	primary := &purgingStore{MemoryStore: storage.NewMemoryStore(), purges: make(chan struct{}, 1)}
	store := storage.NewResilient(primary, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-primary.purges:
	case <-time.After(time.Second):
		t.Fatal("janitor never purged")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor ignored cancellation")
	}
}

// flakyStore is a memory backend that can be taken down and brought back.
type flakyStore struct {
	*storage.MemoryStore
	down atomic.Bool
}

func (store *flakyStore) unavailable() error {
	return apperr.StorageUnavailable(errors.New("dial tcp: connection refused"))
}

func (store *flakyStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if store.down.Load() {
		return nil, store.unavailable()
	}
	return store.MemoryStore.Get(ctx, namespace, key)
}

func (store *flakyStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if store.down.Load() {
		return store.unavailable()
	}
	return store.MemoryStore.Set(ctx, namespace, key, value)
}

func (store *flakyStore) Delete(ctx context.Context, namespace, key string) error {
	if store.down.Load() {
		return store.unavailable()
	}
	return store.MemoryStore.Delete(ctx, namespace, key)
}

func (store *flakyStore) Ping(ctx context.Context) error {
	if store.down.Load() {
		return store.unavailable()
	}
	return nil
}

/*
TestResilient_CancelledRequestKeepsBackend verifies that a request abandoned by
its caller neither degrades the namespace nor hides the visitor's stored state.
*/
func TestResilient_CancelledRequestKeepsBackend(t *testing.T) {
	primary, server := newRedisStore(t, time.Hour)
	core, logs := observer.New(zap.WarnLevel)
	store := storage.NewResilient(primary, zap.New(core))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "abc", "favorites", []byte(`["BMW-M3-2023-001"]`)))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := store.Get(cancelled, "abc", "favorites")
	require.Error(t, err)
	assert.False(t, apperr.IsNotFound(err))
	assert.False(t, store.Degraded("abc"))

	expired, stop := context.WithTimeout(ctx, time.Nanosecond)
	defer stop()
	<-expired.Done()
	assert.Error(t, store.Set(expired, "abc", "theme", []byte("light")))
	assert.False(t, store.Degraded("abc"))

	value, err := store.Get(ctx, "abc", "favorites")
	require.NoError(t, err)
	assert.Equal(t, `["BMW-M3-2023-001"]`, string(value))

	require.NoError(t, store.Set(ctx, "abc", "theme", []byte("dark")))
	assert.True(t, server.Exists("visitor:abc:theme"))
	assert.Equal(t, 0, logs.FilterMessage("storage_degraded").Len())
}

/*
TestResilient_RecoversAndReplays verifies that an outage ends after the retry
interval and that writes made during it reach the backend.
*/
func TestResilient_RecoversAndReplays(t *testing.T) {
	clock := clockwork.NewFakeClock()
	core, logs := observer.New(zap.InfoLevel)
	primary := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	store := storage.NewResilient(primary, zap.New(core),
		storage.WithClock(clock),
		storage.WithRetryAfter(time.Minute),
	)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "abc", "favorites", []byte("[]")))

	primary.down.Store(true)
	require.NoError(t, store.Set(ctx, "abc", "theme", []byte("dark")))
	require.NoError(t, store.Delete(ctx, "abc", "favorites"))
	assert.True(t, store.Degraded("abc"))

	// Still inside the outage: the retry fails and memory keeps serving.
	clock.Advance(time.Minute)
	value, err := store.Get(ctx, "abc", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", string(value))
	assert.True(t, store.Degraded("abc"))
	assert.Equal(t, 1, logs.FilterMessage("storage_retry_failed").Len())

	primary.down.Store(false)
	require.NoError(t, store.Set(ctx, "abc", "history", []byte("[]")))
	assert.True(t, store.Degraded("abc"), "the next retry is not due yet")

	clock.Advance(time.Minute)
	value, err = store.Get(ctx, "abc", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", string(value))
	assert.False(t, store.Degraded("abc"))
	assert.Equal(t, 1, logs.FilterMessage("storage_recovered").Len())

	// The replayed writes now live in the backend itself.
	value, err = primary.MemoryStore.Get(ctx, "abc", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", string(value))
	_, err = primary.MemoryStore.Get(ctx, "abc", "history")
	require.NoError(t, err)
	_, err = primary.MemoryStore.Get(ctx, "abc", "favorites")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestResilient_FallbackExpires verifies that outage writes expire with the
visitor TTL and that the janitor sweeps them.
*/
func TestResilient_FallbackExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	core, logs := observer.New(zap.InfoLevel)
	primary := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	primary.down.Store(true)
	store := storage.NewResilient(primary, zap.New(core),
		storage.WithClock(clock),
		storage.WithRetryAfter(time.Hour),
		storage.WithFallbackTTL(30*time.Minute),
	)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "abc", "theme", []byte("dark")))

	clock.Advance(29 * time.Minute)
	_, err := store.Get(ctx, "abc", "theme")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = store.Get(ctx, "abc", "theme")
	assert.True(t, apperr.IsNotFound(err))

	janitorCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go store.RunJanitor(janitorCtx, time.Minute)

	waitCtx, stop := context.WithTimeout(ctx, time.Second)
	defer stop()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(time.Minute)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("storage_fallback_purged").Len() == 1
	}, time.Second, time.Millisecond)
}

/*
TestMemoryStore_TTL verifies expiry on read and purging.
*/
func TestMemoryStore_TTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := storage.NewMemoryStore(storage.WithTTL(time.Hour), storage.WithMemoryClock(clock))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "abc", "theme", []byte("dark")))
	require.NoError(t, store.Set(ctx, "abc", "favorites", []byte("[]")))

	clock.Advance(30 * time.Minute)
	require.NoError(t, store.Set(ctx, "abc", "favorites", []byte("[]")))

	clock.Advance(30 * time.Minute)
	_, err := store.Get(ctx, "abc", "theme")
	assert.True(t, apperr.IsNotFound(err))
	_, err = store.Get(ctx, "abc", "favorites")
	require.NoError(t, err, "writes refresh the TTL")

	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.Len())
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	redisclient "github.com/taibuivan/autoluxe/internal/platform/redis"
)

// RedisStore keeps visitor state under expiring Redis keys.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a connected client. A ttl of zero keeps keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements [Store].
func (store *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := validKey(namespace, key); err != nil {
		return nil, err
	}

	value, err := store.client.Get(ctx, Key(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound()
	}
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return value, nil
}

// Set implements [Store]. Every write refreshes the TTL.
func (store *RedisStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := validKey(namespace, key); err != nil {
		return err
	}

	if err := store.client.Set(ctx, Key(namespace, key), value, store.ttl).Err(); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

// Delete implements [Store].
func (store *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := validKey(namespace, key); err != nil {
		return err
	}

	if err := store.client.Del(ctx, Key(namespace, key)).Err(); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

// Ping implements [Store].
func (store *RedisStore) Ping(ctx context.Context) error {
	if err := redisclient.Ping(ctx, store.client); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

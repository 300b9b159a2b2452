// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage is the persistence adapter for visitor state.

Values are opaque byte slices addressed by a namespace (one visitor) and a key
(favorites, theme, ...). Callers own the encoding.

Backends:

  - MemoryStore: process memory, used by default and as the fallback.
  - RedisStore: expiring keys under visitor:{namespace}:{key}.
  - PostgresStore: rows of the visitor_state table.

[Resilient] wraps any backend so that an unreachable store never fails a
visitor request: the affected namespace degrades to memory.
*/
package storage

import (
	"context"
	"strings"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
)

// # Interface

// Store is a namespaced key-value store.
type Store interface {
	// Get returns the value or a NotFound error when the key is absent.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Set writes the value, replacing any previous one.
	Set(ctx context.Context, namespace, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// ResourceKey names missing values in NotFound errors.
const ResourceKey = "Key"

// ErrNotFound is returned by every backend for an absent key.
func ErrNotFound() error {
	return apperr.NotFound(ResourceKey)
}

// Key returns the flat key of a namespaced entry, e.g. visitor:abc:favorites.
func Key(namespace, key string) string {
	var builder strings.Builder
	builder.Grow(len(constants.RedisPrefixVisitor) + len(namespace) + len(key) + 1)
	builder.WriteString(constants.RedisPrefixVisitor)
	builder.WriteString(namespace)
	builder.WriteByte(':')
	builder.WriteString(key)
	return builder.String()
}

func validKey(namespace, key string) error {
	if strings.TrimSpace(namespace) == "" || strings.TrimSpace(key) == "" {
		return apperr.ValidationError("Storage namespace and key are required")
	}
	return nil
}

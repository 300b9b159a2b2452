// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/autoluxe/internal/platform/apperr"
	"github.com/taibuivan/autoluxe/internal/platform/database/schema"
	"github.com/taibuivan/autoluxe/internal/platform/dberr"
	"github.com/taibuivan/autoluxe/internal/platform/postgres"
)

// PostgresStore keeps visitor state in the visitor_state table.
// Expired rows are invisible to reads and overwritten by the next write.
type PostgresStore struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

// NewPostgresStore wraps a connected pool. A ttl of zero keeps rows forever.
func NewPostgresStore(db *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl}
}

// Get implements [Store].
func (store *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := validKey(namespace, key); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND (%s IS NULL OR %s > NOW())
	`,
		schema.VisitorState.Value,
		schema.VisitorState.Table,
		schema.VisitorState.Namespace, schema.VisitorState.Key,
		schema.VisitorState.ExpiresAt, schema.VisitorState.ExpiresAt,
	)

	var value []byte
	if err := store.db.QueryRow(ctx, query, namespace, key).Scan(&value); err != nil {
		return nil, dberr.Wrap(err, ResourceKey)
	}
	return value, nil
}

// Set implements [Store]. Every write refreshes the expiry.
func (store *PostgresStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := validKey(namespace, key); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
	`,
		schema.VisitorState.Table,
		schema.VisitorState.Namespace, schema.VisitorState.Key, schema.VisitorState.Value,
		schema.VisitorState.ExpiresAt, schema.VisitorState.UpdatedAt,
		schema.VisitorState.Namespace, schema.VisitorState.Key,
		schema.VisitorState.Value, schema.VisitorState.Value,
		schema.VisitorState.ExpiresAt, schema.VisitorState.ExpiresAt,
		schema.VisitorState.UpdatedAt,
	)

	_, err := store.db.Exec(ctx, query, namespace, key, value, store.expiresAt())
	return dberr.Wrap(err, ResourceKey)
}

// Delete implements [Store].
func (store *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	if err := validKey(namespace, key); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.VisitorState.Table, schema.VisitorState.Namespace, schema.VisitorState.Key,
	)

	_, err := store.db.Exec(ctx, query, namespace, key)
	return dberr.Wrap(err, ResourceKey)
}

// Ping implements [Store].
func (store *PostgresStore) Ping(ctx context.Context) error {
	if err := postgres.Ping(ctx, store.db); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

// PurgeExpired deletes rows whose expiry has passed and returns how many went.
func (store *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s IS NOT NULL AND %s <= NOW()`,
		schema.VisitorState.Table, schema.VisitorState.ExpiresAt, schema.VisitorState.ExpiresAt,
	)

	tag, err := store.db.Exec(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, ResourceKey)
	}
	return tag.RowsAffected(), nil
}

func (store *PostgresStore) expiresAt() *time.Time {
	if store.ttl <= 0 {
		return nil
	}
	expires := time.Now().Add(store.ttl)
	return &expires
}

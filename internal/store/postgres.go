// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package store provides PostgreSQL connection management and schema
// migrations for the member and tour repositories.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// DefaultConnectTimeout bounds the initial connectivity check in NewPool.
const DefaultConnectTimeout = 5 * time.Second

// NewPool opens a pgx connection pool and verifies connectivity with a ping.
// The databaseURL should be a PostgreSQL connection string (postgres:// or
// postgresql:// scheme).
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_CONFIG_INVALID").
			With("operation", "parse database url").
			Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, oops.Code("STORE_PING_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}

// Readiness returns a probe suitable for the observability server's
// readiness endpoint. The probe pings the database with a short timeout.
func Readiness(pool *pgxpool.Pool) func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
		defer cancel()
		return pool.Ping(ctx) == nil
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides a small JSON value cache with Redis and in-memory
// backends. The dashboard aggregate is cached here between requests.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cacher stores JSON-encodable values under string keys with a TTL.
type Cacher interface {
	// Get unmarshals the cached value for key into dest.
	// Returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string, dest any) error
	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

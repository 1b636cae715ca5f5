package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Aside implements the cache-aside pattern over a Store. Cache faults
// never fail a request: reads fall back to the loader and writes and
// invalidations degrade to no-ops, with the incident logged.
type Aside struct {
	store  Store
	keys   Keys
	ttl    time.Duration
	logger *zap.Logger
}

// NewAside creates a cache-aside helper for the given service namespace.
func NewAside(store Store, service string, ttl time.Duration, logger *zap.Logger) *Aside {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aside{
		store:  store,
		keys:   NewKeys(service),
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

// Keys exposes the key builder so callers invalidate with the same scheme.
func (a *Aside) Keys() Keys {
	return a.keys
}

// Invalidate removes the given keys. Mutating operations call this before
// returning so a subsequent read repopulates from the database. Failures
// are logged and swallowed.
func (a *Aside) Invalidate(ctx context.Context, keys ...string) {
	if err := a.store.Delete(ctx, keys...); err != nil {
		a.logger.Warn("cache invalidation failed, entries will expire by TTL",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// Ping reports cache backend health.
func (a *Aside) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// GetOrLoad returns the cached value for key, or invokes load and caches
// the result under the configured TTL. A concurrent invalidation between
// load and the cache write can leave a briefly stale entry; the TTL
// bounds that window.
func GetOrLoad[T any](ctx context.Context, a *Aside, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	data, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			return cached, nil
		}
		// Corrupt entry. Drop it and reload from source.
		a.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		a.Invalidate(ctx, key)
	case errors.Is(err, ErrCacheMiss):
		// Fall through to the loader.
	default:
		a.logger.Warn("cache unavailable, serving from source", zap.String("key", key), zap.Error(err))
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := a.store.Set(ctx, key, data, a.ttl); err != nil {
			a.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return value, nil
}

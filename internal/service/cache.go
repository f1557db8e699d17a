package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/loan-ops/internal/cache"

	"go.uber.org/zap"
)

// Cache is the subset of the redis store the services rely on
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// cached wraps a possibly-nil Cache. Failures are logged and otherwise ignored.
type cached struct {
	store Cache
	log   *zap.Logger
}

func (c cached) get(ctx context.Context, key string, dest interface{}) bool {
	if c.store == nil {
		return false
	}
	err := c.store.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (c cached) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c cached) invalidate(ctx context.Context, keys ...string) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

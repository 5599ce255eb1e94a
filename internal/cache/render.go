// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// render.go provides a Valkey-backed cache of rendered still images.
// When a job renders a template with a given variable set, the PNG bytes
// are stored under a content hash so an identical follow-up job skips
// the full composite.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// renderKeyPrefix is the Valkey key prefix for cached renders.
	renderKeyPrefix = "render:"

	// DefaultRenderTTL is how long a rendered still stays cached.
	DefaultRenderTTL = 15 * time.Minute
)

// RenderCache stores rendered PNG bytes keyed by template + variables.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRenderCache creates a render cache backed by the given Valkey client.
func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	if ttl == 0 {
		ttl = DefaultRenderTTL
	}
	return &RenderCache{client: client, ttl: ttl}
}

// Key derives the cache key for a template id and its resolved variable
// set. The variables are hashed in their JSON form, so any payload field
// change produces a distinct key.
func Key(templateID string, payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// Unmarshalable payloads simply never hit the cache.
		return ""
	}
	sum := sha256.Sum256(append([]byte(templateID+"\x00"), data...))
	return hex.EncodeToString(sum[:16])
}

// Get retrieves cached PNG bytes. Returns false on miss or on any cache
// error; the cache is a pure accelerator and never fails a render.
func (rc *RenderCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	val, err := rc.client.Get(ctx, renderKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("render cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("render cache hit", "key", key)
	return val, true
}

// Set stores rendered PNG bytes with the configured TTL.
func (rc *RenderCache) Set(ctx context.Context, key string, data []byte) {
	if key == "" {
		return
	}
	if err := rc.client.Set(ctx, renderKeyPrefix+key, data, rc.ttl).Err(); err != nil {
		slog.Warn("render cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached render by scanning for the prefix.
// Used when a catalog template changes, since any render could be stale.
func (rc *RenderCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, renderKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("render cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("render cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("render cache cleared", "deleted", deleted)
	}
}

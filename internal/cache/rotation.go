// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"postforge/internal/selection"
)

// rotationKeyPrefix is the Valkey key prefix for tenant rotation state.
const rotationKeyPrefix = "rotation:"

// RotationStore persists per-tenant rotation cursors as small JSON blobs
// in Valkey. It implements selection.StateStore. Reads and writes are
// unlocked; a lost update between concurrent renders only skips or
// repeats one rotation step.
type RotationStore struct {
	client *redis.Client
}

// NewRotationStore creates a rotation store backed by the given client.
func NewRotationStore(client *redis.Client) *RotationStore {
	return &RotationStore{client: client}
}

// Get returns the tenant's rotation state, or the zero state when the
// tenant has none yet.
func (rs *RotationStore) Get(ctx context.Context, tenantID string) (selection.RotationState, error) {
	var state selection.RotationState

	val, err := rs.client.Get(ctx, rotationKeyPrefix+tenantID).Bytes()
	if err == redis.Nil {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("rotation get %s: %w", tenantID, err)
	}

	if err := json.Unmarshal(val, &state); err != nil {
		return state, fmt.Errorf("rotation decode %s: %w", tenantID, err)
	}
	return state, nil
}

// Set stores the tenant's rotation state. Rotation state has no TTL;
// it is tiny and long rotation gaps should not reset the cursor.
func (rs *RotationStore) Set(ctx context.Context, tenantID string, state selection.RotationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("rotation encode %s: %w", tenantID, err)
	}
	if err := rs.client.Set(ctx, rotationKeyPrefix+tenantID, data, 0).Err(); err != nil {
		return fmt.Errorf("rotation set %s: %w", tenantID, err)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package selection

import (
	"context"

	"postforge/internal/template"
)

// KindState is the rotation cursor for one output kind.
type KindState struct {
	LastIndex int `json:"last_index"`
}

// RotationState is a tenant's per-kind rotation cursors. The engine only
// ever advances a cursor modulo the pool size; everything else about the
// blob is opaque to it.
type RotationState struct {
	Still KindState `json:"still"`
	Video KindState `json:"video"`
}

func (s *RotationState) forKind(kind template.OutputKind) *KindState {
	if kind == template.OutputVideo {
		return &s.Video
	}
	return &s.Still
}

// StateStore persists per-tenant rotation state. A missing tenant must
// return the zero state, not an error. Read-modify-write races between
// concurrent renders are tolerated; a lost update only skips or repeats
// one rotation step.
type StateStore interface {
	Get(ctx context.Context, tenantID string) (RotationState, error)
	Set(ctx context.Context, tenantID string, state RotationState) error
}

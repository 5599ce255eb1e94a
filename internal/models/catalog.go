// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is one managed template in the rotation catalog. The
// Definition column carries the full template JSON; BuiltinName is set
// instead when the entry aliases a compiled-in template.
type CatalogEntry struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	OutputKind   string          `json:"output_kind"` // "still" or "video"
	Definition   json.RawMessage `json:"definition,omitempty"`
	BuiltinName  string          `json:"builtin_name,omitempty"`
	ImageCount   int             `json:"image_count"`
	Weight       int             `json:"weight"`
	CategoryKeys []string        `json:"category_keys"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

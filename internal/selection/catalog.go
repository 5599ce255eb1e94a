// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package selection picks the template for a render job: weighted
// round-robin over the managed catalog when possible, deterministic
// hash fallback otherwise.
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"postforge/internal/models"
	"postforge/internal/template"
)

// Candidate is the selection-engine view of one catalog template: the
// parsed template plus its record identity and rotation metadata.
type Candidate struct {
	RecordID     string
	Template     *template.Template
	Weight       int
	CategoryKeys []string
}

// CatalogLister is the slice of the catalog store the snapshot needs.
type CatalogLister interface {
	ListActive(ctx context.Context) ([]models.CatalogEntry, error)
}

// Catalog holds an atomically swappable snapshot of the active template
// catalog. Refresh builds a complete new snapshot and publishes it in
// one step, so readers never observe a half-updated catalog.
type Catalog struct {
	store    CatalogLister
	snapshot atomic.Pointer[[]Candidate]
}

// NewCatalog creates an empty catalog backed by store. Call Refresh (or
// RunRefresh) to populate it.
func NewCatalog(store CatalogLister) *Catalog {
	c := &Catalog{store: store}
	empty := []Candidate{}
	c.snapshot.Store(&empty)
	return c
}

// Snapshot returns the current candidate list. The returned slice is
// immutable; callers must not modify it.
func (c *Catalog) Snapshot() []Candidate {
	return *c.snapshot.Load()
}

// Refresh rebuilds the snapshot from the store. Entries whose template
// JSON fails to parse are logged and dropped; they never poison the
// snapshot.
func (c *Catalog) Refresh(ctx context.Context) error {
	entries, err := c.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("selection: refresh catalog: %w", err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		tpl, err := parseEntry(entry)
		if err != nil {
			slog.Warn("catalog entry dropped", "id", entry.ID, "name", entry.Name, "error", err)
			continue
		}
		candidates = append(candidates, Candidate{
			RecordID:     entry.ID.String(),
			Template:     tpl,
			Weight:       entry.Weight,
			CategoryKeys: entry.CategoryKeys,
		})
	}

	c.snapshot.Store(&candidates)
	slog.Debug("catalog refreshed", "entries", len(entries), "usable", len(candidates))
	return nil
}

func parseEntry(entry models.CatalogEntry) (*template.Template, error) {
	if entry.BuiltinName != "" {
		tpl := template.Builtin(entry.BuiltinName)
		if tpl == nil {
			return nil, fmt.Errorf("unknown builtin %q", entry.BuiltinName)
		}
		return tpl, nil
	}
	return template.Parse(entry.Definition)
}

// RunRefresh refreshes the catalog on the given interval until ctx is
// cancelled. A failed refresh keeps the previous snapshot.
func (c *Catalog) RunRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				slog.Error("catalog refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

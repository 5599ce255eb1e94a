// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package selection

import (
	"context"
	"log/slog"
	"strings"

	"postforge/internal/template"
)

// Engine selects the template for a render job. Selection never fails:
// every degradation path ends at a deterministic built-in choice.
type Engine struct {
	catalog *Catalog
	states  StateStore
}

// NewEngine creates an engine over the catalog. states may be nil, in
// which case tenant rotation is skipped entirely.
func NewEngine(catalog *Catalog, states StateStore) *Engine {
	return &Engine{catalog: catalog, states: states}
}

// Request carries the job fields that steer selection.
type Request struct {
	ImageCount  int
	JobID       string
	Category    string
	PostType    string
	PreferVideo bool
	TenantID    string
}

// Result is the chosen template. RecordID is set only for catalog
// entries; built-in picks carry the builtin name instead.
type Result struct {
	Template *template.Template
	RecordID string
	Builtin  string
}

// SelectNext advances the rotation cursor for kind one step modulo the
// pool size and returns the candidate at the new position. An empty pool
// yields no selection.
func SelectNext(pool []Candidate, state RotationState, kind template.OutputKind) (Candidate, RotationState, bool) {
	if len(pool) == 0 {
		return Candidate{}, state, false
	}

	cursor := state.forKind(kind)
	cursor.LastIndex = (cursor.LastIndex + 1) % len(pool)
	return pool[cursor.LastIndex], state, true
}

// AutoSelect resolves a template with a fixed decision order: explicit
// post-type short-circuits first, then tenant-scoped weighted rotation,
// then the deterministic hash fallback over built-ins. Any rotation
// failure (state errors, empty pool) falls through; it never errors.
func (e *Engine) AutoSelect(ctx context.Context, req Request) Result {
	tag := normalizeTag(req.PostType)
	category := normalizeTag(req.Category)

	if tag == template.BuiltinBeforeAfter || category == template.BuiltinBeforeAfter {
		return builtinResult(template.BuiltinBeforeAfter)
	}

	wantVideo := req.PreferVideo && req.ImageCount >= 3
	if tag == "slideshow" || wantVideo {
		return builtinResult(template.BuiltinSlideshowPromo)
	}

	// Only still templates reach rotation; the video preference was
	// consumed by the slideshow short-circuit above.
	kind := template.OutputStill

	if req.TenantID != "" && e.states != nil {
		if res, ok := e.rotate(ctx, req, kind); ok {
			return res
		}
	}

	return e.fallback(req)
}

// rotate runs one weighted round-robin step for the tenant. Every
// failure reports !ok so the caller degrades to the hash fallback.
func (e *Engine) rotate(ctx context.Context, req Request, kind template.OutputKind) (Result, bool) {
	pool := BuildPool(e.catalog.Snapshot(), kind, req.ImageCount, req.Category)
	if len(pool) == 0 {
		return Result{}, false
	}

	state, err := e.states.Get(ctx, req.TenantID)
	if err != nil {
		slog.Warn("rotation state read failed, using hash fallback",
			"tenant", req.TenantID, "error", err)
		return Result{}, false
	}

	chosen, next, ok := SelectNext(pool, state, kind)
	if !ok {
		return Result{}, false
	}

	if err := e.states.Set(ctx, req.TenantID, next); err != nil {
		slog.Warn("rotation state write failed, using hash fallback",
			"tenant", req.TenantID, "error", err)
		return Result{}, false
	}

	return Result{Template: chosen.Template, RecordID: chosen.RecordID}, true
}

// fallback picks a built-in keyed by image count, using a stable hash of
// the job id to spread multi-option buckets.
func (e *Engine) fallback(req Request) Result {
	switch {
	case req.ImageCount <= 1:
		return builtinResult(template.BuiltinSingleSpotlight)
	case req.ImageCount == 2:
		pair := []string{template.BuiltinDuoSplit, template.BuiltinBeforeAfter}
		return builtinResult(pair[HashString(req.JobID)%2])
	default:
		trio := []string{template.BuiltinTripleStack, template.BuiltinGridCollage, template.BuiltinAccentBanner}
		return builtinResult(trio[HashString(req.JobID)%3])
	}
}

// ResolveID finds a template by catalog record id or built-in name.
// Returns false when neither matches.
func (e *Engine) ResolveID(id string) (Result, bool) {
	for _, c := range e.catalog.Snapshot() {
		if c.RecordID == id {
			return Result{Template: c.Template, RecordID: c.RecordID}, true
		}
	}
	if tpl := template.Builtin(id); tpl != nil {
		return Result{Template: tpl, Builtin: id}, true
	}
	return Result{}, false
}

func builtinResult(name string) Result {
	return Result{Template: template.Builtin(name), Builtin: name}
}

// HashString is a stable 32-bit rolling hash (multiply by 31, add the
// rune), folded to a non-negative int so it can index a bucket list.
func HashString(s string) int {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	if h < 0 {
		h = -h
	}
	if h < 0 { // math.MinInt32 negates to itself
		return 0
	}
	return int(h)
}

// normalizeTag canonicalizes post-type and category spellings:
// lowercase, with "_", "/" and spaces collapsed to "-".
func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer("_", "-", "/", "-", " ", "-")
	return replacer.Replace(s)
}

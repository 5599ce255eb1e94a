// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the rendering API.
// Handlers are grouped by concern (render jobs, template catalog) and
// receive their dependencies through the API struct.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"postforge/internal/ai"
	"postforge/internal/cache"
	"postforge/internal/jobs"
	"postforge/internal/models"
	"postforge/internal/selection"
)

// JobStore is the slice of the job store the handlers need.
type JobStore interface {
	Create(ctx context.Context, job *models.RenderJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error)
}

// CatalogStore is the slice of the catalog store the handlers need.
type CatalogStore interface {
	List(ctx context.Context) ([]models.CatalogEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error)
	Create(ctx context.Context, e *models.CatalogEntry) error
	Update(ctx context.Context, e *models.CatalogEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// API groups the HTTP handlers and their dependencies. registry and
// renders may be nil: a nil registry disables template generation, a
// nil render cache skips invalidation on catalog changes.
type API struct {
	jobStore     JobStore
	runner       *jobs.Service
	catalogStore CatalogStore
	catalog      *selection.Catalog
	renders      *cache.RenderCache
	registry     *ai.Registry
}

// NewAPI creates the handler group with the given dependencies.
func NewAPI(jobStore JobStore, runner *jobs.Service, catalogStore CatalogStore, catalog *selection.Catalog, renders *cache.RenderCache, registry *ai.Registry) *API {
	return &API{
		jobStore:     jobStore,
		runner:       runner,
		catalogStore: catalogStore,
		catalog:      catalog,
		renders:      renders,
		registry:     registry,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields
// so typos in client payloads surface as errors instead of silence.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

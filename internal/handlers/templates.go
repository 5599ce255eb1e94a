// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"postforge/internal/ai"
	"postforge/internal/models"
	"postforge/internal/template"
)

// catalogEntryRequest is the create/update body for a catalog entry.
type catalogEntryRequest struct {
	Name         string          `json:"name"`
	Definition   json.RawMessage `json:"definition,omitempty"`
	BuiltinRef   string          `json:"builtinRef,omitempty"`
	Weight       *int            `json:"rotationWeight,omitempty"`
	CategoryKeys []string        `json:"categoryKeys,omitempty"`
	IsActive     *bool           `json:"isActive,omitempty"`
}

// TemplatesList returns every catalog entry, active or not.
func (a *API) TemplatesList(w http.ResponseWriter, r *http.Request) {
	entries, err := a.catalogStore.List(r.Context())
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list templates")
		return
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// TemplateGet returns one catalog entry by id.
func (a *API) TemplateGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	entry, err := a.catalogStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load template failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load template")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// TemplateCreate inserts a new catalog entry. A JSON definition is
// validated before it is stored; invalid documents never reach the
// database.
func (a *API) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	entry := &models.CatalogEntry{
		Name:         req.Name,
		Definition:   req.Definition,
		BuiltinName:  req.BuiltinRef,
		CategoryKeys: req.CategoryKeys,
		Weight:       1,
		IsActive:     true,
	}
	if req.Weight != nil {
		entry.Weight = *req.Weight
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if msg := validateCatalogEntry(entry); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := a.fillFromDefinition(entry); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := a.catalogStore.Create(r.Context(), entry); err != nil {
		slog.Error("create template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create template")
		return
	}

	a.catalogChanged(r)
	writeJSON(w, http.StatusCreated, entry)
}

// TemplateUpdate rewrites an entry's mutable fields.
func (a *API) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	entry, err := a.catalogStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load template failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load template")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	var req catalogEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if req.Name != "" {
		entry.Name = req.Name
	}
	if req.Definition != nil {
		entry.Definition = req.Definition
	}
	if req.Weight != nil {
		entry.Weight = *req.Weight
	}
	if req.CategoryKeys != nil {
		entry.CategoryKeys = req.CategoryKeys
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if msg := validateCatalogEntry(entry); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := a.fillFromDefinition(entry); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := a.catalogStore.Update(r.Context(), entry); err != nil {
		slog.Error("update template failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not update template")
		return
	}

	a.catalogChanged(r)
	writeJSON(w, http.StatusOK, entry)
}

// TemplateDelete removes a catalog entry.
func (a *API) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	if err := a.catalogStore.Delete(r.Context(), id); err != nil {
		slog.Error("delete template failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete template")
		return
	}

	a.catalogChanged(r)
	w.WriteHeader(http.StatusNoContent)
}

// generateRequest is the POST /api/templates/generate body.
type generateRequest struct {
	Prompt string `json:"prompt"`
	Name   string `json:"name,omitempty"`
	// Save persists the generated entry into the catalog; the default
	// just returns the document for review.
	Save bool `json:"save,omitempty"`
}

// TemplateGenerate asks the active AI provider for a template document,
// validates it, and optionally saves it as a catalog entry.
func (a *API) TemplateGenerate(w http.ResponseWriter, r *http.Request) {
	if a.registry == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI provider configured")
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusUnprocessableEntity, "Prompt is required.")
		return
	}

	doc, tpl, err := ai.GenerateTemplate(r.Context(), a.registry, req.Prompt)
	if err != nil {
		slog.Error("template generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
		return
	}

	if !req.Save {
		writeJSON(w, http.StatusOK, map[string]any{"definition": doc})
		return
	}

	name := req.Name
	if name == "" {
		name = tpl.Name
	}
	entry := &models.CatalogEntry{
		Name:         name,
		Definition:   doc,
		OutputKind:   string(tpl.Output),
		ImageCount:   tpl.ImageCount,
		CategoryKeys: tpl.CategoryKeys,
		Weight:       1,
		IsActive:     true,
	}
	if msg := validateCatalogEntry(entry); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := a.catalogStore.Create(r.Context(), entry); err != nil {
		slog.Error("save generated template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save template")
		return
	}

	a.catalogChanged(r)
	writeJSON(w, http.StatusCreated, entry)
}

// fillFromDefinition parses the entry's JSON definition and derives the
// output kind and expected image count from it. Builtin-backed entries
// take those fields from the builtin instead.
func (a *API) fillFromDefinition(e *models.CatalogEntry) string {
	if len(e.Definition) > 0 {
		tpl, err := template.Parse(e.Definition)
		if err != nil {
			return "Invalid template definition: " + err.Error()
		}
		e.OutputKind = string(tpl.Output)
		e.ImageCount = tpl.ImageCount
		return ""
	}

	tpl := template.Builtin(e.BuiltinName)
	e.OutputKind = string(tpl.Output)
	e.ImageCount = tpl.ImageCount
	return ""
}

// catalogChanged refreshes the selection snapshot and drops cached
// stills after any catalog mutation.
func (a *API) catalogChanged(r *http.Request) {
	if err := a.catalog.Refresh(r.Context()); err != nil {
		slog.Error("catalog refresh after change failed", "error", err)
	}
	if a.renders != nil {
		a.renders.InvalidateAll(r.Context())
	}
}

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

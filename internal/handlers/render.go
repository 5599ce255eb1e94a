// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"postforge/internal/models"
)

// renderRequest is the POST /api/render body: the job payload plus the
// tenant the job is billed and rotated under.
type renderRequest struct {
	TenantID string `json:"tenantId,omitempty"`
	models.JobPayload
}

// CreateRender accepts a render request, persists it as a job, and runs
// it synchronously. The response carries the finished job record, output
// URL included.
func (a *API) CreateRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if msg := validatePayload(&req.JobPayload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	job := &models.RenderJob{
		TenantID: req.TenantID,
		Payload:  req.JobPayload,
	}
	if err := a.jobStore.Create(r.Context(), job); err != nil {
		slog.Error("create render job failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create job")
		return
	}

	if err := a.runner.Execute(r.Context(), job.ID); err != nil {
		slog.Error("render job failed", "job", job.ID, "error", err)
	}

	// Re-read so the response reflects the final status and output URL.
	done, err := a.jobStore.FindByID(r.Context(), job.ID)
	if err != nil || done == nil {
		writeError(w, http.StatusInternalServerError, "could not load job result")
		return
	}

	status := http.StatusOK
	if done.Status == models.JobStatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, done)
}

// JobStatus returns one job record by id.
func (a *API) JobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := a.jobStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load job failed", "job", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

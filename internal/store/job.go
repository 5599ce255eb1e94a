// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"postforge/internal/models"
)

// JobStore handles all render-job database operations.
type JobStore struct {
	db *sql.DB
}

// NewJobStore creates a new JobStore with the given database connection.
func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

// Create inserts a queued job and fills in its generated fields.
func (s *JobStore) Create(ctx context.Context, job *models.RenderJob) error {
	payload, err := job.PayloadJSON()
	if err != nil {
		return fmt.Errorf("create job: marshal payload: %w", err)
	}

	if job.Status == "" {
		job.Status = models.JobStatusQueued
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO render_jobs (tenant_id, status, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, job.TenantID, job.Status, payload).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// FindByID retrieves a job by its UUID. Returns nil if not found.
func (s *JobStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error) {
	var (
		job     models.RenderJob
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, status, payload, output_url, template_used, error, created_at, updated_at
		FROM render_jobs WHERE id = $1
	`, id).Scan(
		&job.ID, &job.TenantID, &job.Status, &payload, &job.OutputURL,
		&job.TemplateUsed, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}

	if err := json.Unmarshal(payload, &job.Payload); err != nil {
		return nil, fmt.Errorf("decode job payload for %s: %w", id, err)
	}
	return &job, nil
}

// MarkRunning flips a job to running.
func (s *JobStore) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, `
		UPDATE render_jobs SET status = 'running', updated_at = now() WHERE id = $1
	`, id)
}

// Complete records a successful render: output URL, the template that
// produced it, and the completed status.
func (s *JobStore) Complete(ctx context.Context, id uuid.UUID, outputURL, templateUsed string) error {
	return s.setStatus(ctx, id, `
		UPDATE render_jobs
		SET status = 'completed', output_url = $2, template_used = $3, error = '', updated_at = now()
		WHERE id = $1
	`, id, outputURL, templateUsed)
}

// Fail records a failed render with its reason.
func (s *JobStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return s.setStatus(ctx, id, `
		UPDATE render_jobs SET status = 'failed', error = $2, updated_at = now() WHERE id = $1
	`, id, reason)
}

func (s *JobStore) setStatus(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update job %s: not found", id)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package jobs orchestrates render jobs end to end: template selection,
// asset fetching, compositing or video assembly, upload, and status
// writes.
package jobs

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"

	"postforge/internal/assets"
	"postforge/internal/cache"
	"postforge/internal/models"
	"postforge/internal/render"
	"postforge/internal/selection"
	"postforge/internal/template"
	"postforge/internal/video"
)

// JobStore is the slice of the job store the service needs.
type JobStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.RenderJob, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, outputURL, templateUsed string) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

// Uploader persists rendered bytes and yields their public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	FileURL(key string) string
}

// Service executes render jobs. All collaborators except the stores may
// be nil: a nil uploader completes jobs without an output URL, a nil
// render cache disables still caching.
type Service struct {
	jobs      JobStore
	engine    *selection.Engine
	assets    *assets.Cache
	comp      *render.Compositor
	assembler *video.Assembler
	uploader  Uploader
	renders   *cache.RenderCache
}

// NewService wires the job execution pipeline.
func NewService(jobs JobStore, engine *selection.Engine, assetCache *assets.Cache, comp *render.Compositor, assembler *video.Assembler, uploader Uploader, renders *cache.RenderCache) *Service {
	return &Service{
		jobs:      jobs,
		engine:    engine,
		assets:    assetCache,
		comp:      comp,
		assembler: assembler,
		uploader:  uploader,
		renders:   renders,
	}
}

// Execute runs one job to completion. Every failure is converted into a
// failed-status write on the job record; the status write itself is best
// effort and never masks the primary error.
func (s *Service) Execute(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("jobs: load %s: %w", jobID, err)
	}
	if job == nil {
		return fmt.Errorf("jobs: %s not found", jobID)
	}

	if err := s.jobs.MarkRunning(ctx, jobID); err != nil {
		return fmt.Errorf("jobs: mark running %s: %w", jobID, err)
	}

	url, templateUsed, err := s.run(ctx, job)
	if err != nil {
		s.failBestEffort(ctx, jobID, err)
		return err
	}

	if err := s.jobs.Complete(ctx, jobID, url, templateUsed); err != nil {
		return fmt.Errorf("jobs: record completion %s: %w", jobID, err)
	}

	slog.Info("job completed", "job", jobID, "template", templateUsed, "output", url)
	return nil
}

// run produces the job's output. It returns the public URL (empty when
// no uploader is configured) and the identity of the template used.
func (s *Service) run(ctx context.Context, job *models.RenderJob) (string, string, error) {
	payload := job.Payload

	result, err := s.resolveTemplate(ctx, job)
	if err != nil {
		return "", "", err
	}
	tpl := result.Template
	templateUsed := result.RecordID
	if templateUsed == "" {
		templateUsed = result.Builtin
	}

	vars := &render.Variables{
		Title:          payload.Title,
		Subtitle:       payload.Subtitle,
		Body:           payload.Body,
		Phone:          payload.Phone,
		ServiceAreas:   payload.ServiceAreas,
		CompanyName:    payload.CompanyName,
		Website:        payload.Website,
		PrimaryColor:   payload.PrimaryColor,
		SecondaryColor: payload.SecondaryColor,
		AccentColor:    payload.AccentColor,
		TextColor:      payload.TextColor,
		Images:         payload.Images,
		Assets:         payload.Assets,
	}

	images, err := s.assets.GetAll(ctx, payload.Images)
	if err != nil {
		return "", "", fmt.Errorf("jobs: fetch images: %w", err)
	}
	assetImages, err := s.assets.GetAssets(ctx, payload.Assets)
	if err != nil {
		return "", "", fmt.Errorf("jobs: fetch brand assets: %w", err)
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	if tpl.IsVideo() {
		data, err = s.assembler.Assemble(ctx, tpl, vars, images, assetImages)
		if err != nil {
			return "", "", err
		}
		contentType, ext = "video/mp4", "mp4"
	} else {
		data, err = s.renderStill(ctx, tpl, templateUsed, vars, images, assetImages, payload)
		if err != nil {
			return "", "", err
		}
		contentType, ext = "image/png", "png"
	}

	if s.uploader == nil {
		slog.Warn("no uploader configured, job completes without output URL", "job", job.ID)
		return "", templateUsed, nil
	}

	key := fmt.Sprintf("renders/%s.%s", job.ID, ext)
	if err := s.uploader.Upload(ctx, key, contentType, data); err != nil {
		return "", "", fmt.Errorf("jobs: upload output: %w", err)
	}
	return s.uploader.FileURL(key), templateUsed, nil
}

// renderStill composites frame 0, consulting the render cache when one
// is configured.
func (s *Service) renderStill(ctx context.Context, tpl *template.Template, templateUsed string, vars *render.Variables, images []image.Image, assetImages map[string]image.Image, payload models.JobPayload) ([]byte, error) {
	var key string
	if s.renders != nil {
		key = cache.Key(templateUsed, payload)
		if data, ok := s.renders.Get(ctx, key); ok {
			return data, nil
		}
	}

	data, err := s.comp.RenderPNG(tpl, 0, vars, images, assetImages)
	if err != nil {
		return nil, err
	}

	if s.renders != nil {
		s.renders.Set(ctx, key, data)
	}
	return data, nil
}

func (s *Service) resolveTemplate(ctx context.Context, job *models.RenderJob) (selection.Result, error) {
	payload := job.Payload

	if payload.TemplateID != "" {
		result, ok := s.engine.ResolveID(payload.TemplateID)
		if !ok {
			return selection.Result{}, fmt.Errorf("jobs: template %q not found", payload.TemplateID)
		}
		return result, nil
	}

	result := s.engine.AutoSelect(ctx, selection.Request{
		ImageCount:  len(payload.Images),
		JobID:       job.ID.String(),
		Category:    payload.Category,
		PostType:    payload.PostType,
		PreferVideo: payload.PreferVideo,
		TenantID:    job.TenantID,
	})
	if result.Template == nil {
		return selection.Result{}, fmt.Errorf("jobs: no usable template for job %s", job.ID)
	}
	return result, nil
}

// failBestEffort writes the failed status. A failed write is logged and
// otherwise ignored so it never masks the primary error.
func (s *Service) failBestEffort(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := s.jobs.Fail(ctx, jobID, cause.Error()); err != nil {
		slog.Error("failed-status write lost", "job", jobID, "primary", cause, "error", err)
	}
}

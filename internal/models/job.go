// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus tracks a render job through its lifecycle.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobPayload is the resolved input a render job carries: content fields,
// brand colors, image URLs, and classifiers steering template selection.
type JobPayload struct {
	Title        string   `json:"title,omitempty"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Body         string   `json:"body,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	ServiceAreas []string `json:"serviceAreas,omitempty"`
	CompanyName  string   `json:"companyName,omitempty"`
	Website      string   `json:"website,omitempty"`

	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	AccentColor    string `json:"accentColor,omitempty"`
	TextColor      string `json:"textColor,omitempty"`

	Images []string          `json:"images,omitempty"`
	Assets map[string]string `json:"assets,omitempty"`

	// Selection hints. TemplateID pins a catalog entry; the rest steer
	// automatic selection.
	TemplateID  string `json:"templateId,omitempty"`
	PostType    string `json:"postType,omitempty"`
	Category    string `json:"category,omitempty"`
	PreferVideo bool   `json:"preferVideo,omitempty"`
}

// RenderJob is the persisted record of one render request.
type RenderJob struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  string     `json:"tenant_id,omitempty"`
	Status    JobStatus  `json:"status"`
	Payload   JobPayload `json:"payload"`
	OutputURL string     `json:"output_url,omitempty"`
	// TemplateUsed records which template the selection engine chose.
	TemplateUsed string    `json:"template_used,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PayloadJSON marshals the payload for jsonb storage.
func (j *RenderJob) PayloadJSON() (json.RawMessage, error) {
	return json.Marshal(j.Payload)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"postforge/internal/template"
)

// templateSystemPrompt steers the model towards our template JSON schema.
// The schema mirrors what template.Parse accepts; anything off-schema is
// rejected after generation, never stored.
const templateSystemPrompt = `You design social-media image templates as JSON documents.
Respond with a single JSON object and nothing else. Schema:
{
  "id": "kebab-case-id", "name": "Human Name",
  "outputFormat": "still" | "video",
  "width": 1080, "height": 1080,
  "imageCount": <number of user photos required>,
  "categoryKeys": ["promo", ...],
  "frames": [{
    "background": {"type": "solid", "color": "{{primaryColor}}"}
                | {"type": "gradient", "angle": 90, "stops": ["#...", "#..."]}
                | {"type": "image", "index": 0},
    "layers": [
      {"type": "image", "x":0,"y":0,"width":0,"height":0, "index":0, "fit":"cover"|"contain",
       "borderRadius":0, "shadow": {"blur":0,"offsetX":0,"offsetY":0,"color":"#00000066"}},
      {"type": "text", "x":0,"y":0,"width":0,"height":0, "text":"{{title}}", "fontSize":64,
       "fontWeight":"bold", "color":"{{textColor}}", "align":"left"|"center"|"right",
       "verticalAlign":"top"|"middle"|"bottom", "maxLines":2, "lineHeight":1.2,
       "letterSpacing":0, "textCase":"none"|"upper"|"lower"},
      {"type": "rect", "x":0,"y":0,"width":0,"height":0, "fill":"#...", "stroke":"#...",
       "strokeWidth":2, "borderRadius":0, "opacity":0.5},
      {"type": "asset", "x":0,"y":0,"width":0,"height":0, "variant":"cta", "fit":"contain"},
      {"type": "accentBar", "x":0,"y":0,"width":0,"height":0, "color":"{{accentColor}}"}
    ]
  }]
}
Color values may reference brand variables: {{primaryColor}}, {{secondaryColor}},
{{accentColor}}, {{textColor}}. Text placeholders: {{title}}, {{subtitle}}, {{body}},
{{phone}}, {{companyName}}, {{website}}, {{serviceAreas}}.
Video templates need at least 2 frames and may set "fps" and
"transition": {"type":"fade","durationMs":500}.`

// GenerateTemplate asks the active provider for a template matching the
// prompt and validates the result. The returned raw JSON has passed
// template.Parse; invalid model output is an error, never stored.
func GenerateTemplate(ctx context.Context, r *Registry, prompt string) (json.RawMessage, *template.Template, error) {
	text, err := r.Generate(ctx, templateSystemPrompt, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("ai: generate template: %w", err)
	}

	raw := json.RawMessage(stripFences(text))
	tpl, err := template.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("ai: generated template rejected: %w", err)
	}
	return raw, tpl, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// in one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

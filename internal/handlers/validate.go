package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"postforge/internal/models"
	"postforge/internal/template"
)

// Validation limits for render payloads and catalog entries.
const (
	maxTitleLen        = 300
	maxBodyLen         = 2_000
	maxImages          = 20
	maxAssets          = 10
	maxTemplateNameLen = 200
	maxDefinitionLen   = 500_000
)

// validatePayload checks a render payload and returns the first error found.
func validatePayload(p *models.JobPayload) string {
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(p.Body) > maxBodyLen {
		return "Body is too long (max 2,000 characters)."
	}
	if len(p.Images) > maxImages {
		return "Too many images (max 20)."
	}
	if len(p.Assets) > maxAssets {
		return "Too many brand assets (max 10)."
	}

	colors := map[string]string{
		"primaryColor":   p.PrimaryColor,
		"secondaryColor": p.SecondaryColor,
		"accentColor":    p.AccentColor,
		"textColor":      p.TextColor,
	}
	for name, value := range colors {
		if value != "" && !isHexColor(value) {
			return fmt.Sprintf("Field %s must be a hex color like #1A2B3C.", name)
		}
	}
	return ""
}

// validateCatalogEntry checks a catalog entry before it is written. The
// definition itself is validated separately by template.Parse.
func validateCatalogEntry(e *models.CatalogEntry) string {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if len(e.Definition) > maxDefinitionLen {
		return "Template definition is too long (max 500,000 characters)."
	}
	if len(e.Definition) == 0 && e.BuiltinName == "" {
		return "Either a definition or a builtin reference is required."
	}
	if e.BuiltinName != "" && template.Builtin(e.BuiltinName) == nil {
		return fmt.Sprintf("Unknown builtin template %q.", e.BuiltinName)
	}
	if e.Weight < 0 {
		return "Rotation weight must not be negative."
	}
	return ""
}

// isHexColor accepts #RGB, #RRGGBB, and #RRGGBBAA.
func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 && len(s) != 9 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render is the raster engine: it resolves template placeholders
// against per-job variables, measures and wraps text, computes image-fit
// geometry, and composites template frames into PNG stills.
package render

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

// Variables is the flat record of resolved per-job values. It is built
// once per render call and never mutated afterwards.
type Variables struct {
	Title        string
	Subtitle     string
	Body         string
	Phone        string
	ServiceAreas []string
	CompanyName  string
	Website      string

	// Brand colors as hex strings.
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	TextColor      string

	// User image URLs, referenced by index from image layers.
	Images []string

	// Composite-asset URLs keyed by variant tag ("cta", "logo", ...).
	Assets map[string]string
}

// Map returns the placeholder lookup table for ResolveVariables. Slice
// values are joined with ", " at substitution time.
func (v *Variables) Map() map[string]any {
	return map[string]any{
		"title":        v.Title,
		"subtitle":     v.Subtitle,
		"body":         v.Body,
		"phone":        v.Phone,
		"serviceAreas": v.ServiceAreas,
		"companyName":  v.CompanyName,
		"website":      v.Website,
	}
}

// ColorVars returns the canonical color-variable table used by
// ResolveColor. Missing brand colors fall back to a neutral palette so a
// sparsely configured tenant still renders legibly.
func (v *Variables) ColorVars() map[string]string {
	colors := map[string]string{
		"primaryColor":   "#1f2937",
		"secondaryColor": "#f3f4f6",
		"accentColor":    "#f59e0b",
		"textColor":      "#ffffff",
	}
	if v.PrimaryColor != "" {
		colors["primaryColor"] = v.PrimaryColor
	}
	if v.SecondaryColor != "" {
		colors["secondaryColor"] = v.SecondaryColor
	}
	if v.AccentColor != "" {
		colors["accentColor"] = v.AccentColor
	}
	if v.TextColor != "" {
		colors["textColor"] = v.TextColor
	}
	return colors
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// ResolveVariables substitutes every {{identifier}} token in text with
// the variable's string form. Slices are joined with ", "; unknown
// identifiers resolve to the empty string. Substitution is a single
// linear pass — substituted content is never re-scanned.
func ResolveVariables(text string, vars map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		val, ok := vars[key]
		if !ok {
			return ""
		}
		switch v := val.(type) {
		case string:
			return v
		case []string:
			return strings.Join(v, ", ")
		default:
			return ""
		}
	})
}

// ResolveColor maps a template color value to a concrete hex string.
// Values wrapped in {{...}} or prefixed with "$" are looked up in the
// color-variable table, defaulting to opaque black on a missing key.
// Anything else is returned unchanged as a literal color.
func ResolveColor(value string, colors map[string]string) string {
	var key string
	switch {
	case strings.HasPrefix(value, "{{") && strings.HasSuffix(value, "}}"):
		key = strings.TrimSpace(value[2 : len(value)-2])
	case strings.HasPrefix(value, "$"):
		key = value[1:]
	default:
		return value
	}

	if resolved, ok := colors[key]; ok {
		return resolved
	}
	return "#000000"
}

// ParseHexColor converts #RGB, #RRGGBB, or #RRGGBBAA strings to an RGBA
// color. Malformed input yields opaque black.
func ParseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if okR && okG && okB {
			return color.RGBA{r * 17, g * 17, b * 17, 255}
		}
	case 6:
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
		}
	case 8:
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
		}
	}

	return color.RGBA{0, 0, 0, 255}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package template

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// JSON wire shapes. Layer and background variants are discriminated by a
// "type" field; unknown or malformed shapes reject the whole document.

type templateJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	OutputFormat string          `json:"outputFormat"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	ImageCount   int             `json:"imageCount"`
	CategoryKeys []string        `json:"categoryKeys"`
	FPS          int             `json:"fps"`
	Transition   *transitionJSON `json:"transition"`
	Frames       []frameJSON     `json:"frames"`
}

type transitionJSON struct {
	Type       string `json:"type"`
	DurationMs int    `json:"durationMs"`
}

type frameJSON struct {
	DurationMs int             `json:"durationMs"`
	Background json.RawMessage `json:"background"`
	Layers     []json.RawMessage `json:"layers"`
}

type backgroundJSON struct {
	Type  string   `json:"type"`
	Color string   `json:"color"`
	Angle float64  `json:"angle"`
	Stops []string `json:"stops"`
	Index int      `json:"index"`
}

type layerJSON struct {
	Type string `json:"type"`

	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	Opacity      *float64 `json:"opacity"`
	BorderRadius float64  `json:"borderRadius"`
	Visible      *bool    `json:"visible"`

	// image / asset
	Index      int         `json:"index"`
	Fit        string      `json:"fit"`
	Shadow     *shadowJSON `json:"shadow"`
	Variant    string      `json:"variant"`
	Background string      `json:"background"`

	// text
	Text          string  `json:"text"`
	Font          string  `json:"font"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight"`
	Color         string  `json:"color"`
	Align         string  `json:"align"`
	VerticalAlign string  `json:"verticalAlign"`
	MaxLines      int     `json:"maxLines"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	TextCase      string  `json:"textCase"`

	// rect
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type shadowJSON struct {
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Color   string  `json:"color"`
}

// Parse decodes and validates a template JSON document. Validation is
// all-or-nothing: any invalid frame, layer, or field rejects the whole
// document with a structured reason.
func Parse(data []byte) (*Template, error) {
	var raw templateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("template: invalid JSON: %w", err)
	}

	if raw.ID == "" {
		return nil, fmt.Errorf("template: id is required")
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("template %s: name is required", raw.ID)
	}

	kind := OutputKind(raw.OutputFormat)
	if kind != OutputStill && kind != OutputVideo {
		return nil, fmt.Errorf("template %s: outputFormat must be %q or %q, got %q",
			raw.ID, OutputStill, OutputVideo, raw.OutputFormat)
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("template %s: width and height must be positive", raw.ID)
	}
	if raw.ImageCount < 0 {
		return nil, fmt.Errorf("template %s: imageCount must be >= 0", raw.ID)
	}
	if len(raw.Frames) == 0 {
		return nil, fmt.Errorf("template %s: at least one frame is required", raw.ID)
	}
	if kind == OutputVideo && len(raw.Frames) < 2 {
		return nil, fmt.Errorf("template %s: video output requires at least 2 frames", raw.ID)
	}
	if raw.FPS < 0 {
		return nil, fmt.Errorf("template %s: fps must be >= 0", raw.ID)
	}

	t := &Template{
		ID:           raw.ID,
		Name:         raw.Name,
		Output:       kind,
		Width:        raw.Width,
		Height:       raw.Height,
		ImageCount:   raw.ImageCount,
		CategoryKeys: raw.CategoryKeys,
		FPS:          raw.FPS,
	}

	if raw.Transition != nil {
		if raw.Transition.DurationMs <= 0 {
			return nil, fmt.Errorf("template %s: transition durationMs must be positive", raw.ID)
		}
		t.Transition = &Transition{
			Type:     raw.Transition.Type,
			Duration: time.Duration(raw.Transition.DurationMs) * time.Millisecond,
		}
	}

	for i, rf := range raw.Frames {
		frame, err := parseFrame(rf)
		if err != nil {
			return nil, fmt.Errorf("template %s: frame %d: %w", raw.ID, i, err)
		}
		t.Frames = append(t.Frames, frame)
	}

	return t, nil
}

func parseFrame(raw frameJSON) (Frame, error) {
	var frame Frame

	if raw.DurationMs < 0 {
		return frame, fmt.Errorf("durationMs must be >= 0")
	}
	frame.Duration = time.Duration(raw.DurationMs) * time.Millisecond

	bg, err := parseBackground(raw.Background)
	if err != nil {
		return frame, err
	}
	frame.Background = bg

	for i, rl := range raw.Layers {
		layer, err := parseLayer(rl)
		if err != nil {
			return frame, fmt.Errorf("layer %d: %w", i, err)
		}
		frame.Layers = append(frame.Layers, layer)
	}

	return frame, nil
}

func parseBackground(data json.RawMessage) (Background, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("background is required")
	}

	var raw backgroundJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	switch raw.Type {
	case "solid":
		if raw.Color == "" {
			return nil, fmt.Errorf("solid background requires a color")
		}
		return SolidBackground{Color: raw.Color}, nil
	case "gradient":
		if len(raw.Stops) < 2 {
			return nil, fmt.Errorf("gradient background requires at least 2 stops")
		}
		return GradientBackground{Angle: raw.Angle, Stops: raw.Stops}, nil
	case "image":
		if raw.Index < 0 {
			return nil, fmt.Errorf("image background index must be >= 0")
		}
		return ImageBackground{Index: raw.Index}, nil
	default:
		return nil, fmt.Errorf("unknown background type %q", raw.Type)
	}
}

func parseLayer(data json.RawMessage) (Layer, error) {
	var raw layerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	base, err := parseLayerBase(raw)
	if err != nil {
		return nil, err
	}

	switch raw.Type {
	case "image":
		if raw.Index < 0 {
			return nil, fmt.Errorf("image layer index must be >= 0")
		}
		fit, err := parseFit(raw.Fit)
		if err != nil {
			return nil, err
		}
		l := &ImageLayer{LayerBase: base, Index: raw.Index, Fit: fit}
		if raw.Shadow != nil {
			if raw.Shadow.Blur < 0 {
				return nil, fmt.Errorf("shadow blur must be >= 0")
			}
			l.Shadow = &Shadow{
				Blur:    raw.Shadow.Blur,
				OffsetX: raw.Shadow.OffsetX,
				OffsetY: raw.Shadow.OffsetY,
				Color:   raw.Shadow.Color,
			}
		}
		return l, nil

	case "text":
		if raw.Text == "" {
			return nil, fmt.Errorf("text layer requires text")
		}
		if raw.FontSize <= 0 {
			return nil, fmt.Errorf("text layer requires a positive fontSize")
		}
		align, err := parseHAlign(raw.Align)
		if err != nil {
			return nil, err
		}
		valign, err := parseVAlign(raw.VerticalAlign)
		if err != nil {
			return nil, err
		}
		casing, err := parseCase(raw.TextCase)
		if err != nil {
			return nil, err
		}
		if raw.MaxLines < 0 {
			return nil, fmt.Errorf("maxLines must be >= 0")
		}
		if raw.LineHeight < 0 || raw.LetterSpacing < 0 {
			return nil, fmt.Errorf("lineHeight and letterSpacing must be >= 0")
		}
		return &TextLayer{
			LayerBase:     base,
			Text:          raw.Text,
			Font:          raw.Font,
			Size:          raw.FontSize,
			Weight:        raw.FontWeight,
			Color:         raw.Color,
			Align:         align,
			VAlign:        valign,
			MaxLines:      raw.MaxLines,
			LineHeight:    raw.LineHeight,
			LetterSpacing: raw.LetterSpacing,
			Case:          casing,
		}, nil

	case "rect":
		if raw.Fill == "" && raw.Stroke == "" {
			return nil, fmt.Errorf("rect layer requires a fill or a stroke")
		}
		if raw.StrokeWidth < 0 {
			return nil, fmt.Errorf("strokeWidth must be >= 0")
		}
		return &RectLayer{
			LayerBase:   base,
			Fill:        raw.Fill,
			Stroke:      raw.Stroke,
			StrokeWidth: raw.StrokeWidth,
		}, nil

	case "asset":
		if raw.Variant == "" {
			return nil, fmt.Errorf("asset layer requires a variant")
		}
		fit, err := parseFit(raw.Fit)
		if err != nil {
			return nil, err
		}
		return &AssetLayer{
			LayerBase:  base,
			Variant:    raw.Variant,
			Fit:        fit,
			Background: raw.Background,
		}, nil

	case "accentBar":
		if raw.Color == "" {
			return nil, fmt.Errorf("accentBar layer requires a color")
		}
		return &AccentBarLayer{LayerBase: base, Color: raw.Color}, nil

	default:
		return nil, fmt.Errorf("unknown layer type %q", raw.Type)
	}
}

func parseLayerBase(raw layerJSON) (LayerBase, error) {
	base := LayerBase{
		X:            raw.X,
		Y:            raw.Y,
		Width:        raw.Width,
		Height:       raw.Height,
		Opacity:      1,
		CornerRadius: raw.BorderRadius,
		Visible:      true,
	}

	if raw.Width <= 0 || raw.Height <= 0 {
		return base, fmt.Errorf("layer width and height must be positive")
	}
	if raw.Opacity != nil {
		if *raw.Opacity < 0 || *raw.Opacity > 1 {
			return base, fmt.Errorf("opacity must be within [0,1]")
		}
		base.Opacity = *raw.Opacity
	}
	if raw.BorderRadius < 0 {
		return base, fmt.Errorf("borderRadius must be >= 0")
	}
	// The quarter-arc rounding path degenerates past the half-extent.
	if raw.BorderRadius > math.Min(raw.Width, raw.Height)/2 {
		return base, fmt.Errorf("borderRadius exceeds half of the smaller dimension")
	}
	if raw.Visible != nil {
		base.Visible = *raw.Visible
	}
	return base, nil
}

func parseFit(s string) (FitMode, error) {
	switch s {
	case "", "cover":
		return FitCover, nil
	case "contain":
		return FitContain, nil
	default:
		return "", fmt.Errorf("unknown fit mode %q", s)
	}
}

func parseHAlign(s string) (HAlign, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return "", fmt.Errorf("unknown align %q", s)
	}
}

func parseVAlign(s string) (VAlign, error) {
	switch s {
	case "", "top":
		return AlignTop, nil
	case "middle":
		return AlignMiddle, nil
	case "bottom":
		return AlignBottom, nil
	default:
		return "", fmt.Errorf("unknown verticalAlign %q", s)
	}
}

func parseCase(s string) (CaseMode, error) {
	switch s {
	case "", "none":
		return CaseNone, nil
	case "upper":
		return CaseUpper, nil
	case "lower":
		return CaseLower, nil
	default:
		return "", fmt.Errorf("unknown textCase %q", s)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package template defines the declarative layout model for branded
// social-media renders: a Template is an ordered list of Frames, each
// composed of a Background and a paint-ordered list of typed Layers.
// Templates arrive as JSON documents (validated by Parse) or come from
// the built-in set in builtin.go.
package template

import "time"

// OutputKind distinguishes single-image templates from multi-frame
// slideshow videos.
type OutputKind string

const (
	OutputStill OutputKind = "still"
	OutputVideo OutputKind = "video"
)

// FitMode controls how a source image is placed into a layer box.
type FitMode string

const (
	FitCover   FitMode = "cover"   // crop to fill the box
	FitContain FitMode = "contain" // letterbox inside the box
)

// HAlign is horizontal text alignment within a layer box.
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign is vertical text alignment within a layer box.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignMiddle VAlign = "middle"
	AlignBottom VAlign = "bottom"
)

// CaseMode is the text-casing transform applied before wrapping.
type CaseMode string

const (
	CaseNone  CaseMode = "none"
	CaseUpper CaseMode = "upper"
	CaseLower CaseMode = "lower"
)

// Template is an immutable layout definition. Layer geometry in every
// frame is expressed in the template's canvas coordinate space.
type Template struct {
	ID           string
	Name         string
	Output       OutputKind
	Width        int
	Height       int
	ImageCount   int // user images the template expects
	CategoryKeys []string
	FPS          int         // 0 means DefaultFPS
	Transition   *Transition // nil means the default fade
	Frames       []Frame
}

// Transition describes the inter-frame crossfade of a video template.
type Transition struct {
	Type     string
	Duration time.Duration
}

// Frame is one renderable still: a background plus layers painted in
// list order (later layers occlude earlier ones).
type Frame struct {
	Duration   time.Duration // 0 means the assembler's default hold
	Background Background
	Layers     []Layer
}

// Background is the closed set of frame background variants.
type Background interface{ isBackground() }

// SolidBackground fills the canvas with a single color. The color value
// may be a literal hex string or a {{colorVariable}} reference.
type SolidBackground struct {
	Color string
}

// GradientBackground fills the canvas with a linear gradient whose axis
// is derived from Angle (degrees) and whose stops are distributed evenly
// across [0,1].
type GradientBackground struct {
	Angle float64
	Stops []string // >= 2 color values
}

// ImageBackground cover-fits an indexed user image across the canvas.
type ImageBackground struct {
	Index int
}

func (SolidBackground) isBackground()    {}
func (GradientBackground) isBackground() {}
func (ImageBackground) isBackground()    {}

// LayerBase carries the geometry and paint state shared by every layer
// variant. Position and size are in canvas pixels.
type LayerBase struct {
	X, Y          float64
	Width, Height float64
	Opacity       float64 // [0,1]; 1 when absent from JSON
	CornerRadius  float64 // uniform radius, <= min(w,h)/2
	Visible       bool
}

// Layer is the closed set of drawable layer variants. The compositor
// dispatches on the concrete type; adding a variant requires updating
// that switch.
type Layer interface {
	Base() *LayerBase
	isLayer()
}

// ImageLayer draws an indexed user image with the chosen fit mode.
type ImageLayer struct {
	LayerBase
	Index  int
	Fit    FitMode
	Shadow *Shadow
}

// Shadow is a drop shadow active for a single image draw.
type Shadow struct {
	Blur    float64
	OffsetX float64
	OffsetY float64
	Color   string
}

// TextLayer draws placeholder-resolved, wrapped text.
type TextLayer struct {
	LayerBase
	Text          string // may contain {{variable}} placeholders
	Font          string // family name; empty means the default face
	Size          float64
	Weight        string // "regular" | "bold"
	Color         string
	Align         HAlign
	VAlign        VAlign
	MaxLines      int     // 0 means unbounded
	LineHeight    float64 // multiplier on Size; 0 means 1.2
	LetterSpacing float64 // extra px per glyph; 0 means natural advance
	Case          CaseMode
}

// RectLayer fills (and optionally strokes) a possibly rounded rectangle.
type RectLayer struct {
	LayerBase
	Fill        string
	Stroke      string // empty means no stroke
	StrokeWidth float64
}

// AssetLayer draws a pre-baked brand image (logo, call-to-action art)
// selected by variant tag rather than index. An optional background fill
// is painted behind it first.
type AssetLayer struct {
	LayerBase
	Variant    string
	Fit        FitMode
	Background string // optional fill behind the asset
}

// AccentBarLayer is a solid colored rectangle, typically a thin brand
// stripe.
type AccentBarLayer struct {
	LayerBase
	Color string
}

func (l *ImageLayer) Base() *LayerBase     { return &l.LayerBase }
func (l *TextLayer) Base() *LayerBase      { return &l.LayerBase }
func (l *RectLayer) Base() *LayerBase      { return &l.LayerBase }
func (l *AssetLayer) Base() *LayerBase     { return &l.LayerBase }
func (l *AccentBarLayer) Base() *LayerBase { return &l.LayerBase }

func (*ImageLayer) isLayer()     {}
func (*TextLayer) isLayer()      {}
func (*RectLayer) isLayer()      {}
func (*AssetLayer) isLayer()     {}
func (*AccentBarLayer) isLayer() {}

// DefaultFPS is the frame rate used when a video template omits fps.
const DefaultFPS = 25

// DefaultFrameHold is how long a frame is shown when it has no duration.
const DefaultFrameHold = 3 * time.Second

// DefaultTransition is applied when a video template omits transition.
var DefaultTransition = Transition{Type: "fade", Duration: 500 * time.Millisecond}

// IsVideo reports whether the template produces a video output.
func (t *Template) IsVideo() bool { return t.Output == OutputVideo }

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package template

import "time"

// Built-in templates back the deterministic selection fallback and the
// fixed before/after and slideshow short-circuits. They are compiled in
// so a tenant with no managed catalog still renders something branded.

const (
	BuiltinBeforeAfter     = "before-after"
	BuiltinSlideshowPromo  = "slideshow-promo"
	BuiltinSingleSpotlight = "single-spotlight"
	BuiltinDuoSplit        = "duo-split"
	BuiltinTripleStack     = "triple-stack"
	BuiltinGridCollage     = "grid-collage"
	BuiltinAccentBanner    = "accent-banner"
)

// Builtin returns the named built-in template, or nil when the name is
// unknown. Callers must not mutate the returned value.
func Builtin(name string) *Template {
	return builtins[name]
}

// BuiltinNames lists every built-in template name.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

var builtins = map[string]*Template{
	BuiltinSingleSpotlight: {
		ID:         BuiltinSingleSpotlight,
		Name:       "Single Spotlight",
		Output:     OutputStill,
		Width:      1080,
		Height:     1080,
		ImageCount: 1,
		Frames: []Frame{{
			Background: SolidBackground{Color: "{{primaryColor}}"},
			Layers: []Layer{
				&ImageLayer{
					LayerBase: LayerBase{X: 60, Y: 60, Width: 960, Height: 640, Opacity: 1, CornerRadius: 24, Visible: true},
					Index:     0,
					Fit:       FitCover,
					Shadow:    &Shadow{Blur: 18, OffsetY: 10, Color: "#00000066"},
				},
				&TextLayer{
					LayerBase: LayerBase{X: 60, Y: 730, Width: 960, Height: 140, Opacity: 1, Visible: true},
					Text:      "{{title}}",
					Size:      64,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignTop,
					MaxLines:  2,
					Case:      CaseUpper,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 60, Y: 880, Width: 960, Height: 90, Opacity: 1, Visible: true},
					Text:      "{{subtitle}}",
					Size:      36,
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignTop,
					MaxLines:  2,
				},
				&AccentBarLayer{
					LayerBase: LayerBase{X: 60, Y: 990, Width: 240, Height: 10, Opacity: 1, Visible: true},
					Color:     "{{accentColor}}",
				},
				&AssetLayer{
					LayerBase: LayerBase{X: 720, Y: 940, Width: 300, Height: 100, Opacity: 1, Visible: true},
					Variant:   "cta",
					Fit:       FitContain,
				},
			},
		}},
	},

	BuiltinBeforeAfter: {
		ID:           BuiltinBeforeAfter,
		Name:         "Before / After",
		Output:       OutputStill,
		Width:        1080,
		Height:       1080,
		ImageCount:   2,
		CategoryKeys: []string{"before-after"},
		Frames: []Frame{{
			Background: SolidBackground{Color: "{{secondaryColor}}"},
			Layers: []Layer{
				&ImageLayer{
					LayerBase: LayerBase{X: 30, Y: 140, Width: 500, Height: 700, Opacity: 1, CornerRadius: 16, Visible: true},
					Index:     0,
					Fit:       FitCover,
				},
				&ImageLayer{
					LayerBase: LayerBase{X: 550, Y: 140, Width: 500, Height: 700, Opacity: 1, CornerRadius: 16, Visible: true},
					Index:     1,
					Fit:       FitCover,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 30, Y: 860, Width: 500, Height: 60, Opacity: 1, Visible: true},
					Text:      "Before",
					Size:      40,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignCenter,
					VAlign:    AlignMiddle,
					Case:      CaseUpper,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 550, Y: 860, Width: 500, Height: 60, Opacity: 1, Visible: true},
					Text:      "After",
					Size:      40,
					Weight:    "bold",
					Color:     "{{accentColor}}",
					Align:     AlignCenter,
					VAlign:    AlignMiddle,
					Case:      CaseUpper,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 60, Y: 30, Width: 960, Height: 90, Opacity: 1, Visible: true},
					Text:      "{{companyName}}",
					Size:      48,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignCenter,
					VAlign:    AlignMiddle,
				},
				&AssetLayer{
					LayerBase: LayerBase{X: 390, Y: 950, Width: 300, Height: 100, Opacity: 1, Visible: true},
					Variant:   "cta",
					Fit:       FitContain,
				},
			},
		}},
	},

	BuiltinDuoSplit: {
		ID:         BuiltinDuoSplit,
		Name:       "Duo Split",
		Output:     OutputStill,
		Width:      1080,
		Height:     1080,
		ImageCount: 2,
		Frames: []Frame{{
			Background: GradientBackground{Angle: 135, Stops: []string{"{{primaryColor}}", "{{secondaryColor}}"}},
			Layers: []Layer{
				&ImageLayer{
					LayerBase: LayerBase{X: 0, Y: 0, Width: 540, Height: 1080, Opacity: 1, Visible: true},
					Index:     0,
					Fit:       FitCover,
				},
				&ImageLayer{
					LayerBase: LayerBase{X: 540, Y: 0, Width: 540, Height: 1080, Opacity: 1, Visible: true},
					Index:     1,
					Fit:       FitCover,
				},
				&RectLayer{
					LayerBase: LayerBase{X: 140, Y: 420, Width: 800, Height: 240, Opacity: 0.88, CornerRadius: 20, Visible: true},
					Fill:      "{{primaryColor}}",
				},
				&TextLayer{
					LayerBase: LayerBase{X: 170, Y: 450, Width: 740, Height: 110, Opacity: 1, Visible: true},
					Text:      "{{title}}",
					Size:      56,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignCenter,
					VAlign:    AlignMiddle,
					MaxLines:  2,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 170, Y: 565, Width: 740, Height: 70, Opacity: 1, Visible: true},
					Text:      "{{phone}}",
					Size:      38,
					Color:     "{{accentColor}}",
					Align:     AlignCenter,
					VAlign:    AlignMiddle,
					LetterSpacing: 2,
				},
			},
		}},
	},

	BuiltinTripleStack: {
		ID:         BuiltinTripleStack,
		Name:       "Triple Stack",
		Output:     OutputStill,
		Width:      1080,
		Height:     1350,
		ImageCount: 3,
		Frames: []Frame{{
			Background: SolidBackground{Color: "{{primaryColor}}"},
			Layers: []Layer{
				&ImageLayer{
					LayerBase: LayerBase{X: 40, Y: 40, Width: 1000, Height: 560, Opacity: 1, CornerRadius: 18, Visible: true},
					Index:     0,
					Fit:       FitCover,
				},
				&ImageLayer{
					LayerBase: LayerBase{X: 40, Y: 620, Width: 490, Height: 360, Opacity: 1, CornerRadius: 18, Visible: true},
					Index:     1,
					Fit:       FitCover,
				},
				&ImageLayer{
					LayerBase: LayerBase{X: 550, Y: 620, Width: 490, Height: 360, Opacity: 1, CornerRadius: 18, Visible: true},
					Index:     2,
					Fit:       FitCover,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 40, Y: 1010, Width: 1000, Height: 150, Opacity: 1, Visible: true},
					Text:      "{{title}}",
					Size:      58,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignTop,
					MaxLines:  2,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 40, Y: 1170, Width: 700, Height: 120, Opacity: 1, Visible: true},
					Text:      "Serving {{serviceAreas}}",
					Size:      32,
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignTop,
					MaxLines:  2,
				},
				&AssetLayer{
					LayerBase: LayerBase{X: 760, Y: 1190, Width: 280, Height: 110, Opacity: 1, Visible: true},
					Variant:   "cta",
					Fit:       FitContain,
				},
			},
		}},
	},

	BuiltinGridCollage: {
		ID:         BuiltinGridCollage,
		Name:       "Grid Collage",
		Output:     OutputStill,
		Width:      1080,
		Height:     1080,
		ImageCount: 3,
		Frames: []Frame{{
			Background: ImageBackground{Index: 0},
			Layers: []Layer{
				&RectLayer{
					LayerBase: LayerBase{X: 0, Y: 640, Width: 1080, Height: 440, Opacity: 0.92, Visible: true},
					Fill:      "{{primaryColor}}",
				},
				&ImageLayer{
					LayerBase: LayerBase{X: 60, Y: 690, Width: 300, Height: 300, Opacity: 1, CornerRadius: 150, Visible: true},
					Index:     1,
					Fit:       FitCover,
				},
				&ImageLayer{
					LayerBase: LayerBase{X: 400, Y: 690, Width: 300, Height: 300, Opacity: 1, CornerRadius: 150, Visible: true},
					Index:     2,
					Fit:       FitCover,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 740, Y: 690, Width: 280, Height: 300, Opacity: 1, Visible: true},
					Text:      "{{title}}",
					Size:      44,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignMiddle,
					MaxLines:  4,
				},
				&AccentBarLayer{
					LayerBase: LayerBase{X: 0, Y: 632, Width: 1080, Height: 8, Opacity: 1, Visible: true},
					Color:     "{{accentColor}}",
				},
			},
		}},
	},

	BuiltinAccentBanner: {
		ID:         BuiltinAccentBanner,
		Name:       "Accent Banner",
		Output:     OutputStill,
		Width:      1200,
		Height:     628,
		ImageCount: 3,
		Frames: []Frame{{
			Background: SolidBackground{Color: "{{secondaryColor}}"},
			Layers: []Layer{
				&ImageLayer{
					LayerBase: LayerBase{X: 620, Y: 0, Width: 580, Height: 628, Opacity: 1, Visible: true},
					Index:     0,
					Fit:       FitCover,
				},
				&AccentBarLayer{
					LayerBase: LayerBase{X: 600, Y: 0, Width: 20, Height: 628, Opacity: 1, Visible: true},
					Color:     "{{accentColor}}",
				},
				&TextLayer{
					LayerBase: LayerBase{X: 50, Y: 90, Width: 520, Height: 220, Opacity: 1, Visible: true},
					Text:      "{{title}}",
					Size:      52,
					Weight:    "bold",
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignTop,
					MaxLines:  3,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 50, Y: 330, Width: 520, Height: 150, Opacity: 1, Visible: true},
					Text:      "{{body}}",
					Size:      28,
					Color:     "{{textColor}}",
					Align:     AlignLeft,
					VAlign:    AlignTop,
					MaxLines:  4,
					LineHeight: 1.4,
				},
				&TextLayer{
					LayerBase: LayerBase{X: 50, Y: 520, Width: 520, Height: 60, Opacity: 1, Visible: true},
					Text:      "{{website}}",
					Size:      26,
					Color:     "{{accentColor}}",
					Align:     AlignLeft,
					VAlign:    AlignMiddle,
					LetterSpacing: 1.5,
				},
			},
		}},
	},

	BuiltinSlideshowPromo: {
		ID:           BuiltinSlideshowPromo,
		Name:         "Slideshow Promo",
		Output:       OutputVideo,
		Width:        1080,
		Height:       1080,
		ImageCount:   3,
		CategoryKeys: []string{"slideshow"},
		FPS:          DefaultFPS,
		Transition:   &Transition{Type: "fade", Duration: 600 * time.Millisecond},
		Frames: []Frame{
			{
				Duration:   3 * time.Second,
				Background: ImageBackground{Index: 0},
				Layers: []Layer{
					&RectLayer{
						LayerBase: LayerBase{X: 0, Y: 780, Width: 1080, Height: 300, Opacity: 0.85, Visible: true},
						Fill:      "{{primaryColor}}",
					},
					&TextLayer{
						LayerBase: LayerBase{X: 60, Y: 810, Width: 960, Height: 150, Opacity: 1, Visible: true},
						Text:      "{{title}}",
						Size:      60,
						Weight:    "bold",
						Color:     "{{textColor}}",
						Align:     AlignLeft,
						VAlign:    AlignTop,
						MaxLines:  2,
						Case:      CaseUpper,
					},
				},
			},
			{
				Duration:   3 * time.Second,
				Background: ImageBackground{Index: 1},
				Layers: []Layer{
					&RectLayer{
						LayerBase: LayerBase{X: 0, Y: 780, Width: 1080, Height: 300, Opacity: 0.85, Visible: true},
						Fill:      "{{primaryColor}}",
					},
					&TextLayer{
						LayerBase: LayerBase{X: 60, Y: 810, Width: 960, Height: 150, Opacity: 1, Visible: true},
						Text:      "{{subtitle}}",
						Size:      48,
						Color:     "{{textColor}}",
						Align:     AlignLeft,
						VAlign:    AlignTop,
						MaxLines:  2,
					},
				},
			},
			{
				Duration:   4 * time.Second,
				Background: ImageBackground{Index: 2},
				Layers: []Layer{
					&RectLayer{
						LayerBase: LayerBase{X: 140, Y: 360, Width: 800, Height: 360, Opacity: 0.9, CornerRadius: 24, Visible: true},
						Fill:      "{{primaryColor}}",
					},
					&TextLayer{
						LayerBase: LayerBase{X: 180, Y: 400, Width: 720, Height: 120, Opacity: 1, Visible: true},
						Text:      "{{companyName}}",
						Size:      54,
						Weight:    "bold",
						Color:     "{{textColor}}",
						Align:     AlignCenter,
						VAlign:    AlignMiddle,
					},
					&TextLayer{
						LayerBase: LayerBase{X: 180, Y: 540, Width: 720, Height: 80, Opacity: 1, Visible: true},
						Text:      "{{phone}}",
						Size:      42,
						Color:     "{{accentColor}}",
						Align:     AlignCenter,
						VAlign:    AlignMiddle,
						LetterSpacing: 2,
					},
					&AssetLayer{
						LayerBase: LayerBase{X: 390, Y: 760, Width: 300, Height: 100, Opacity: 1, Visible: true},
						Variant:   "cta",
						Fit:       FitContain,
					},
				},
			},
		},
	},
}

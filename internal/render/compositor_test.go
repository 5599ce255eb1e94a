package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"postforge/internal/template"
)

func testCompositor(t *testing.T) *Compositor {
	t.Helper()
	fonts, err := NewFontManager("")
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}
	return NewCompositor(fonts)
}

func stillTemplate(w, h int, bg template.Background, layers ...template.Layer) *template.Template {
	return &template.Template{
		ID:     "t-test",
		Name:   "test",
		Output: template.OutputStill,
		Width:  w,
		Height: h,
		Frames: []template.Frame{{Background: bg, Layers: layers}},
	}
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// --- backgrounds ---

func TestRenderFrameSolidBackground(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(10, 10, template.SolidBackground{Color: "#ff0000"})

	img, err := c.RenderFrame(tpl, 0, &Variables{}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel = %v, want red", got)
	}
}

func TestRenderFrameSolidBackgroundBrandColor(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(4, 4, template.SolidBackground{Color: "{{primaryColor}}"})

	img, err := c.RenderFrame(tpl, 0, &Variables{PrimaryColor: "#00ff00"}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 2, 2); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("pixel = %v, want brand green", got)
	}
}

func TestRenderFrameGradientBackground(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(10, 100, template.GradientBackground{
		Angle: 90,
		Stops: []string{"#000000", "#ffffff"},
	})

	img, err := c.RenderFrame(tpl, 0, &Variables{}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	top := rgbaAt(img, 5, 3)
	bottom := rgbaAt(img, 5, 96)
	if top.R > 40 {
		t.Errorf("top of 90° gradient = %v, want near black", top)
	}
	if bottom.R < 215 {
		t.Errorf("bottom of 90° gradient = %v, want near white", bottom)
	}
	if top.R >= bottom.R {
		t.Errorf("gradient not increasing top→bottom: %v vs %v", top, bottom)
	}
}

func TestRenderFrameImageBackgroundMissingFallsBack(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(8, 8, template.ImageBackground{Index: 0})

	// No images supplied; the frame must still render with the brand fill.
	img, err := c.RenderFrame(tpl, 0, &Variables{PrimaryColor: "#123456"}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 4, 4); got != (color.RGBA{0x12, 0x34, 0x56, 255}) {
		t.Errorf("fallback fill = %v, want #123456", got)
	}
}

func TestRenderFrameImageBackgroundCovers(t *testing.T) {
	c := testCompositor(t)
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.NRGBA{0, 0, 255, 255})
		}
	}
	tpl := stillTemplate(20, 10, template.ImageBackground{Index: 0})

	img, err := c.RenderFrame(tpl, 0, &Variables{}, []image.Image{src}, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	got := rgbaAt(img, 1, 1)
	if got.B < 200 {
		t.Errorf("corner = %v, want covered by blue source", got)
	}
}

// --- layers ---

func TestRenderFrameRectLayer(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(10, 10,
		template.SolidBackground{Color: "#ffffff"},
		&template.RectLayer{
			LayerBase: template.LayerBase{X: 0, Y: 0, Width: 5, Height: 10, Opacity: 1, Visible: true},
			Fill:      "#0000ff",
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 2, 5); got.B < 200 || got.R > 50 {
		t.Errorf("inside rect = %v, want blue", got)
	}
	if got := rgbaAt(img, 8, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside rect = %v, want untouched white", got)
	}
}

func TestRenderFrameInvisibleLayerSkipped(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(6, 6,
		template.SolidBackground{Color: "#ffffff"},
		&template.RectLayer{
			LayerBase: template.LayerBase{Width: 6, Height: 6, Opacity: 1, Visible: false},
			Fill:      "#000000",
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 3, 3); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, invisible layer must not draw", got)
	}
}

func TestRenderFrameOpacityBlends(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(6, 6,
		template.SolidBackground{Color: "#ffffff"},
		&template.RectLayer{
			LayerBase: template.LayerBase{Width: 6, Height: 6, Opacity: 0.5, Visible: true},
			Fill:      "#000000",
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	got := rgbaAt(img, 3, 3)
	if got.R < 110 || got.R > 145 {
		t.Errorf("half-opacity black over white = %v, want mid gray", got)
	}
}

func TestRenderFrameMissingImageLayerSkipped(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(10, 10,
		template.SolidBackground{Color: "#ffffff"},
		&template.ImageLayer{
			LayerBase: template.LayerBase{Width: 10, Height: 10, Opacity: 1, Visible: true},
			Index:     3,
			Fit:       template.FitCover,
		},
	)

	// Index 3 with a single nil slot: the layer is skipped, not fatal.
	img, err := c.RenderFrame(tpl, 0, &Variables{}, []image.Image{nil}, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want background untouched", got)
	}
}

func TestRenderFrameImageLayerCover(t *testing.T) {
	c := testCompositor(t)
	src := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			src.Set(x, y, color.NRGBA{255, 0, 0, 255})
		}
	}
	tpl := stillTemplate(20, 20,
		template.SolidBackground{Color: "#ffffff"},
		&template.ImageLayer{
			LayerBase: template.LayerBase{X: 5, Y: 5, Width: 10, Height: 10, Opacity: 1, Visible: true},
			Index:     0,
			Fit:       template.FitCover,
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{}, []image.Image{src}, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 10, 10); got.R < 200 {
		t.Errorf("inside layer box = %v, want red image", got)
	}
	if got := rgbaAt(img, 2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside layer box = %v, want white", got)
	}
}

func TestRenderFrameContainLetterboxes(t *testing.T) {
	c := testCompositor(t)
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20)) // 2:1, opaque green
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.NRGBA{0, 255, 0, 255})
		}
	}
	tpl := stillTemplate(20, 20,
		template.SolidBackground{Color: "#ffffff"},
		&template.ImageLayer{
			LayerBase: template.LayerBase{X: 0, Y: 0, Width: 20, Height: 20, Opacity: 1, Visible: true},
			Index:     0,
			Fit:       template.FitContain,
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{}, []image.Image{src}, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	// 40x20 into 20x20 contain: 20x10 band centered, letterbox above/below.
	if got := rgbaAt(img, 10, 10); got.G < 200 {
		t.Errorf("band center = %v, want green", got)
	}
	if got := rgbaAt(img, 10, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("letterbox = %v, want background white", got)
	}
}

func TestRenderFrameTextLayer(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(100, 40,
		template.SolidBackground{Color: "#ffffff"},
		&template.TextLayer{
			LayerBase: template.LayerBase{X: 0, Y: 0, Width: 100, Height: 40, Opacity: 1, Visible: true},
			Text:      "{{title}}",
			Size:      24,
			Weight:    "bold",
			Color:     "#000000",
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{Title: "HI"}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	// Some pixel in the layer box must be darkened by glyph coverage.
	dark := false
	for y := 0; y < 40 && !dark; y++ {
		for x := 0; x < 100; x++ {
			if rgbaAt(img, x, y).R < 128 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("no glyph coverage found for rendered text")
	}
}

func TestRenderFrameAccentBar(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(10, 10,
		template.SolidBackground{Color: "#ffffff"},
		&template.AccentBarLayer{
			LayerBase: template.LayerBase{X: 0, Y: 8, Width: 10, Height: 2, Opacity: 1, Visible: true},
			Color:     "{{accentColor}}",
		},
	)

	img, err := c.RenderFrame(tpl, 0, &Variables{AccentColor: "#ff00ff"}, nil, nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := rgbaAt(img, 5, 9); got.R < 200 || got.B < 200 || got.G > 50 {
		t.Errorf("bar pixel = %v, want accent magenta", got)
	}
}

// --- entry points ---

func TestRenderFrameBadIndex(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(4, 4, template.SolidBackground{Color: "#ffffff"})

	if _, err := c.RenderFrame(tpl, 1, &Variables{}, nil, nil); err == nil {
		t.Error("expected error for out-of-range frame index")
	}
	if _, err := c.RenderFrame(tpl, -1, &Variables{}, nil, nil); err == nil {
		t.Error("expected error for negative frame index")
	}
}

func TestRenderPNG(t *testing.T) {
	c := testCompositor(t)
	tpl := stillTemplate(12, 7, template.SolidBackground{Color: "#336699"})

	data, err := c.RenderPNG(tpl, 0, &Variables{}, nil, nil)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Errorf("decoded size = %dx%d, want 12x7", b.Dx(), b.Dy())
	}
}

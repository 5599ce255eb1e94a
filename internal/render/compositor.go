// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"postforge/internal/template"
)

// Compositor draws template frames onto raster canvases. It is stateless
// apart from the font cache and safe for concurrent use.
type Compositor struct {
	fonts *FontManager
}

// NewCompositor creates a compositor drawing with the given fonts.
func NewCompositor(fonts *FontManager) *Compositor {
	return &Compositor{fonts: fonts}
}

// frameEnv bundles the resolved inputs a single frame draw needs.
type frameEnv struct {
	vars   map[string]any
	colors map[string]string
	images []image.Image
	assets map[string]image.Image
}

// image returns the indexed user image, or nil when the index is out of
// range or the fetch for it failed.
func (e *frameEnv) image(idx int) image.Image {
	if idx < 0 || idx >= len(e.images) {
		return nil
	}
	return e.images[idx]
}

// RenderFrame composites one frame of the template: background first,
// then layers in strict list order. Missing referenced images are logged
// and skipped; they never fail the frame.
func (c *Compositor) RenderFrame(t *template.Template, frameIdx int, vars *Variables, images []image.Image, assets map[string]image.Image) (image.Image, error) {
	if frameIdx < 0 || frameIdx >= len(t.Frames) {
		return nil, fmt.Errorf("render: template %s has no frame %d", t.ID, frameIdx)
	}

	env := &frameEnv{
		vars:   vars.Map(),
		colors: vars.ColorVars(),
		images: images,
		assets: assets,
	}

	dc := gg.NewContext(t.Width, t.Height)
	c.paintBackground(dc, t, t.Frames[frameIdx].Background, env)

	for _, layer := range t.Frames[frameIdx].Layers {
		base := layer.Base()
		if !base.Visible || base.Opacity <= 0 {
			continue
		}

		if base.Opacity < 1 {
			// Scoped alpha: the layer draws onto a scratch canvas which is
			// then blended in, so a failed or partial draw can never leak
			// blend state into later layers.
			scratch := gg.NewContext(t.Width, t.Height)
			c.drawLayer(scratch, layer, env)
			alpha := image.NewUniform(color.Alpha{A: uint8(base.Opacity*255 + 0.5)})
			draw.DrawMask(dc.Image().(draw.Image), dc.Image().Bounds(),
				scratch.Image(), image.Point{}, alpha, image.Point{}, draw.Over)
			continue
		}

		c.drawLayer(dc, layer, env)
	}

	return dc.Image(), nil
}

// RenderPNG renders a frame and encodes it as PNG bytes.
func (c *Compositor) RenderPNG(t *template.Template, frameIdx int, vars *Variables, images []image.Image, assets map[string]image.Image) ([]byte, error) {
	img, err := c.RenderFrame(t, frameIdx, vars, images, assets)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) paintBackground(dc *gg.Context, t *template.Template, bg template.Background, env *frameEnv) {
	w, h := float64(t.Width), float64(t.Height)

	switch b := bg.(type) {
	case template.SolidBackground:
		dc.SetColor(ParseHexColor(ResolveColor(b.Color, env.colors)))
		dc.Clear()

	case template.GradientBackground:
		x0, y0, x1, y1 := gradientAxis(b.Angle, w, h)
		grad := gg.NewLinearGradient(x0, y0, x1, y1)
		last := float64(len(b.Stops) - 1)
		for i, stop := range b.Stops {
			grad.AddColorStop(float64(i)/last, ParseHexColor(ResolveColor(stop, env.colors)))
		}
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()

	case template.ImageBackground:
		img := env.image(b.Index)
		if img == nil {
			slog.Warn("background image missing, using brand fill",
				"template", t.ID, "index", b.Index)
			dc.SetColor(ParseHexColor(env.colors["primaryColor"]))
			dc.Clear()
			return
		}
		filled := imaging.Fill(img, t.Width, t.Height, imaging.Center, imaging.Lanczos)
		dc.DrawImage(filled, 0, 0)
	}
}

// gradientAxis converts an angle in degrees into gradient endpoints that
// span the canvas through its center. 0° runs left→right, 90° top→bottom.
func gradientAxis(angle, w, h float64) (x0, y0, x1, y1 float64) {
	rad := angle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	// Half-length of the projection of the canvas onto the axis.
	half := (math.Abs(dx)*w + math.Abs(dy)*h) / 2
	cx, cy := w/2, h/2
	return cx - dx*half, cy - dy*half, cx + dx*half, cy + dy*half
}

// drawLayer dispatches on the closed layer set. Each arm is responsible
// for resolving its own colors and skipping missing inputs.
func (c *Compositor) drawLayer(dc *gg.Context, layer template.Layer, env *frameEnv) {
	switch l := layer.(type) {
	case *template.ImageLayer:
		c.drawImageLayer(dc, l, env)
	case *template.TextLayer:
		c.drawTextLayer(dc, l, env)
	case *template.RectLayer:
		c.drawRectLayer(dc, l, env)
	case *template.AssetLayer:
		c.drawAssetLayer(dc, l, env)
	case *template.AccentBarLayer:
		dc.SetColor(ParseHexColor(ResolveColor(l.Color, env.colors)))
		dc.DrawRoundedRectangle(l.X, l.Y, l.Width, l.Height, l.CornerRadius)
		dc.Fill()
	}
}

func (c *Compositor) drawImageLayer(dc *gg.Context, l *template.ImageLayer, env *frameEnv) {
	img := env.image(l.Index)
	if img == nil {
		slog.Warn("image layer skipped: no image at index", "index", l.Index)
		return
	}
	c.drawFitted(dc, img, l.LayerBase, l.Fit, l.Shadow, env)
}

func (c *Compositor) drawAssetLayer(dc *gg.Context, l *template.AssetLayer, env *frameEnv) {
	img := env.assets[l.Variant]
	if img == nil {
		slog.Warn("asset layer skipped: variant unavailable", "variant", l.Variant)
		return
	}

	if l.Background != "" {
		dc.SetColor(ParseHexColor(ResolveColor(l.Background, env.colors)))
		dc.DrawRoundedRectangle(l.X, l.Y, l.Width, l.Height, l.CornerRadius)
		dc.Fill()
	}

	c.drawFitted(dc, img, l.LayerBase, l.Fit, nil, env)
}

// drawFitted places img into the layer box using the fit mode, with an
// optional rounded clip and an optional drop shadow. The shadow is active
// for this single draw only.
func (c *Compositor) drawFitted(dc *gg.Context, img image.Image, base template.LayerBase, fit template.FitMode, shadow *template.Shadow, env *frameEnv) {
	boxW, boxH := int(base.Width), int(base.Height)
	srcB := img.Bounds()

	var fitted image.Image
	var dstX, dstY int
	switch fit {
	case template.FitContain:
		dst := ContainRect(srcB.Dx(), srcB.Dy(),
			image.Rect(int(base.X), int(base.Y), int(base.X)+boxW, int(base.Y)+boxH))
		fitted = imaging.Fit(img, boxW, boxH, imaging.Lanczos)
		// imaging.Fit preserves aspect ratio; recenter with its actual size.
		fb := fitted.Bounds()
		dstX = dst.Min.X + (dst.Dx()-fb.Dx())/2
		dstY = dst.Min.Y + (dst.Dy()-fb.Dy())/2
	default: // cover
		fitted = imaging.Fill(img, boxW, boxH, imaging.Center, imaging.Lanczos)
		dstX, dstY = int(base.X), int(base.Y)
	}

	if shadow != nil {
		c.drawShadow(dc, shadow, float64(dstX), float64(dstY),
			float64(fitted.Bounds().Dx()), float64(fitted.Bounds().Dy()), base.CornerRadius, env)
	}

	if base.CornerRadius > 0 {
		dc.DrawRoundedRectangle(base.X, base.Y, base.Width, base.Height, base.CornerRadius)
		dc.Clip()
		dc.DrawImage(fitted, dstX, dstY)
		dc.ResetClip()
		return
	}
	dc.DrawImage(fitted, dstX, dstY)
}

// drawShadow paints a blurred silhouette of the drawn rectangle, offset
// by the shadow's displacement, underneath the image draw that follows.
func (c *Compositor) drawShadow(dc *gg.Context, s *template.Shadow, x, y, w, h, radius float64, env *frameEnv) {
	col := s.Color
	if col == "" {
		col = "#00000080"
	}

	scratch := gg.NewContext(dc.Width(), dc.Height())
	scratch.SetColor(ParseHexColor(ResolveColor(col, env.colors)))
	scratch.DrawRoundedRectangle(x+s.OffsetX, y+s.OffsetY, w, h, radius)
	scratch.Fill()

	silhouette := scratch.Image()
	if s.Blur > 0 {
		silhouette = imaging.Blur(silhouette, s.Blur/2)
	}
	dc.DrawImage(silhouette, 0, 0)
}

func (c *Compositor) drawRectLayer(dc *gg.Context, l *template.RectLayer, env *frameEnv) {
	if l.Fill != "" {
		dc.SetColor(ParseHexColor(ResolveColor(l.Fill, env.colors)))
		dc.DrawRoundedRectangle(l.X, l.Y, l.Width, l.Height, l.CornerRadius)
		dc.Fill()
	}
	if l.Stroke != "" {
		width := l.StrokeWidth
		if width <= 0 {
			width = 1
		}
		dc.SetColor(ParseHexColor(ResolveColor(l.Stroke, env.colors)))
		dc.SetLineWidth(width)
		dc.DrawRoundedRectangle(l.X, l.Y, l.Width, l.Height, l.CornerRadius)
		dc.Stroke()
	}
}

func (c *Compositor) drawTextLayer(dc *gg.Context, l *template.TextLayer, env *frameEnv) {
	resolved := ApplyCase(ResolveVariables(l.Text, env.vars), l.Case)
	face := c.fonts.Face(l.Font, l.Weight, l.Size)

	lines := WrapText(face, resolved, int(l.Width), l.MaxLines)
	if len(lines) == 0 {
		return
	}

	mult := l.LineHeight
	if mult <= 0 {
		mult = 1.2
	}
	lineHeight := l.Size * mult
	ascent := float64(face.Metrics().Ascent.Ceil())
	totalH := lineHeight * float64(len(lines))

	var top float64
	switch l.VAlign {
	case template.AlignMiddle:
		top = l.Y + (l.Height-totalH)/2
	case template.AlignBottom:
		top = l.Y + l.Height - totalH
	default:
		top = l.Y
	}

	dc.SetFontFace(face)
	dc.SetColor(ParseHexColor(ResolveColor(l.Color, env.colors)))

	for i, line := range lines {
		lineW := float64(measure(face, line))
		if l.LetterSpacing > 0 {
			lineW += l.LetterSpacing * float64(len([]rune(line))-1)
		}

		var x float64
		switch l.Align {
		case template.AlignCenter:
			x = l.X + (l.Width-lineW)/2
		case template.AlignRight:
			x = l.X + l.Width - lineW
		default:
			x = l.X
		}

		baseline := top + lineHeight*float64(i) + ascent
		if l.LetterSpacing > 0 {
			drawSpaced(dc, face, line, x, baseline, l.LetterSpacing)
		} else {
			dc.DrawString(line, x, baseline)
		}
	}
}

// drawSpaced draws text glyph by glyph, advancing by the measured glyph
// width plus the spacing constant. Kerning pairs are deliberately not
// honored; the advance is the bare glyph width.
func drawSpaced(dc *gg.Context, face font.Face, text string, x, baseline, spacing float64) {
	for _, r := range text {
		glyph := string(r)
		dc.DrawString(glyph, x, baseline)
		x += float64(measure(face, glyph)) + spacing
	}
}

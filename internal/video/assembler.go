// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"postforge/internal/render"
	"postforge/internal/template"
)

// DefaultTimeout bounds a single ffmpeg encode.
const DefaultTimeout = 2 * time.Minute

// Assembler renders each frame of a video template to a still and
// encodes the sequence into an MP4 via ffmpeg.
type Assembler struct {
	comp    *render.Compositor
	timeout time.Duration
}

// NewAssembler creates an assembler. A zero timeout uses DefaultTimeout.
func NewAssembler(comp *render.Compositor, timeout time.Duration) *Assembler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Assembler{comp: comp, timeout: timeout}
}

// Assemble renders every frame, writes the stills to a scratch
// directory, and runs ffmpeg to produce the crossfaded H.264 clip. The
// returned bytes are the complete MP4.
func (a *Assembler) Assemble(ctx context.Context, t *template.Template, vars *render.Variables, images []image.Image, assets map[string]image.Image) ([]byte, error) {
	if !t.IsVideo() {
		return nil, fmt.Errorf("video: template %s is not a video template", t.ID)
	}
	if len(t.Frames) < 2 {
		return nil, fmt.Errorf("video: template %s has %d frames, need at least 2", t.ID, len(t.Frames))
	}

	dir, err := os.MkdirTemp("", "postforge-video-*")
	if err != nil {
		return nil, fmt.Errorf("video: scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	holds := make([]time.Duration, len(t.Frames))
	framePaths := make([]string, len(t.Frames))
	for i := range t.Frames {
		data, err := a.comp.RenderPNG(t, i, vars, images, assets)
		if err != nil {
			return nil, fmt.Errorf("video: render frame %d: %w", i, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("video: write frame %d: %w", i, err)
		}
		framePaths[i] = path

		holds[i] = t.Frames[i].Duration
		if holds[i] <= 0 {
			holds[i] = template.DefaultFrameHold
		}
	}

	fps := t.FPS
	if fps <= 0 {
		fps = template.DefaultFPS
	}
	transition := template.DefaultTransition
	if t.Transition != nil {
		transition = *t.Transition
	}

	graph, total := BuildCrossfadeGraph(holds, transition.Type, transition.Duration)
	outPath := filepath.Join(dir, "out.mp4")

	inputs := make([]*ffmpeg.Stream, len(framePaths))
	for i, path := range framePaths {
		inputs[i] = ffmpeg.Input(path, ffmpeg.KwArgs{
			"loop":      "1",
			"t":         seconds(holds[i]),
			"framerate": fmt.Sprintf("%d", fps),
		})
	}

	cmd := ffmpeg.Output(inputs, outPath, ffmpeg.KwArgs{
		"filter_complex": graph,
		"map":            "[vout]",
		"c:v":            "libx264",
		"preset":         "medium",
		"crf":            "23",
		"r":              fmt.Sprintf("%d", fps),
		"movflags":       "+faststart",
	}).OverWriteOutput().Compile()

	if err := a.run(ctx, cmd); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("video: read encoded clip: %w", err)
	}

	slog.Info("video assembled", "template", t.ID,
		"frames", len(t.Frames), "duration", total, "bytes", len(data))
	return data, nil
}

// run re-executes the compiled ffmpeg invocation under the assembler's
// timeout, capturing stderr so an encode failure carries ffmpeg's own
// diagnostics.
func (a *Assembler) run(ctx context.Context, compiled *exec.Cmd) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("video: ffmpeg timed out after %s", a.timeout)
		}
		return fmt.Errorf("video: ffmpeg: %w: %s", err, tail(stderr.String(), 2000))
	}
	return nil
}

// tail keeps the last n bytes of s. ffmpeg puts the actionable error at
// the end of a long banner.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

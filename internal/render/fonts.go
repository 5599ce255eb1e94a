package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const fontDPI = 72

// FontManager parses TTF/OTF files once and hands out cached faces at
// requested sizes. Families are keyed by lowercased file base name; the
// embedded Go fonts back the "regular" and "bold" defaults so rendering
// works with no font directory at all.
type FontManager struct {
	mu       sync.Mutex
	families map[string]*opentype.Font
	faces    map[faceKey]font.Face
}

type faceKey struct {
	family string
	size   float64
}

// NewFontManager loads every .ttf/.otf file from dir (optional) on top of
// the embedded defaults. Individual files that fail to parse are logged
// and skipped.
func NewFontManager(dir string) (*FontManager, error) {
	fm := &FontManager{
		families: make(map[string]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse embedded regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse embedded bold: %w", err)
	}
	fm.families["regular"] = regular
	fm.families["bold"] = bold

	if dir != "" {
		if err := fm.loadDir(dir); err != nil {
			return nil, err
		}
	}

	return fm, nil
}

func (fm *FontManager) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("fonts: read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("font file unreadable, skipping", "file", entry.Name(), "error", err)
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			slog.Warn("font file unparseable, skipping", "file", entry.Name(), "error", err)
			continue
		}

		family := strings.ToLower(strings.TrimSuffix(entry.Name(), ext))
		fm.families[family] = parsed
		slog.Debug("font loaded", "family", family)
	}

	return nil
}

// Face returns a font face for the given family, weight, and pixel size.
// Unknown families fall back to the embedded default for the weight, so
// Face never fails for a positive size.
func (fm *FontManager) Face(family, weight string, size float64) font.Face {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	name := strings.ToLower(family)
	if _, ok := fm.families[name]; !ok {
		if strings.EqualFold(weight, "bold") {
			name = "bold"
		} else {
			name = "regular"
		}
	}

	key := faceKey{family: name, size: size}
	if face, ok := fm.faces[key]; ok {
		return face
	}

	face, err := opentype.NewFace(fm.families[name], &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Embedded fonts parse at any positive size; a failure here means
		// a corrupt custom font slipped through. Degrade to the default.
		slog.Warn("face creation failed, using default", "family", name, "error", err)
		face, _ = opentype.NewFace(fm.families["regular"], &opentype.FaceOptions{
			Size: size, DPI: fontDPI, Hinting: font.HintingFull,
		})
	}

	fm.faces[key] = face
	return face
}

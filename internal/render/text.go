package render

import (
	"strings"

	"golang.org/x/image/font"

	"postforge/internal/template"
)

// Ellipsis terminates the last visible line when a line cap cuts text.
const Ellipsis = "…"

// WrapText greedily wraps text into lines whose measured width stays
// within maxWidth pixels. A single word wider than maxWidth is placed
// alone on its line rather than broken mid-word. When maxLines > 0 and
// the wrap produces more lines, the result is truncated to exactly
// maxLines and the final line is shortened until it fits with a trailing
// ellipsis.
func WrapText(face font.Face, text string, maxWidth, maxLines int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(face, candidate) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	lines = append(lines, current)

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncateWithEllipsis(face, lines[maxLines-1], maxWidth)
	}

	return lines
}

// truncateWithEllipsis drops trailing characters (and trailing spaces)
// from line until line+ellipsis measures within maxWidth. If even the
// ellipsis alone does not fit, the line degenerates to just the ellipsis.
func truncateWithEllipsis(face font.Face, line string, maxWidth int) string {
	if measure(face, Ellipsis) > maxWidth {
		return Ellipsis
	}

	runes := []rune(line)
	for len(runes) > 0 {
		candidate := strings.TrimRight(string(runes), " ") + Ellipsis
		if measure(face, candidate) <= maxWidth {
			return candidate
		}
		runes = runes[:len(runes)-1]
	}
	return Ellipsis
}

// measure returns the advance width of s in whole pixels.
func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// ApplyCase applies the template's text-casing transform.
func ApplyCase(text string, mode template.CaseMode) string {
	switch mode {
	case template.CaseUpper:
		return strings.ToUpper(text)
	case template.CaseLower:
		return strings.ToLower(text)
	default:
		return text
	}
}

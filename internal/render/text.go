package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MeasureText returns the pixel width and height of s. The ink bounds are
// used when the face reports any; otherwise the advance width and the line
// height from the face metrics.
func MeasureText(face font.Face, s string) (int, int) {
	if b, ok := inkBounds(face, s); ok {
		return (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
	}
	m := face.Metrics()
	return font.MeasureString(face, s).Ceil(), (m.Ascent + m.Descent).Ceil()
}

func inkBounds(face font.Face, s string) (fixed.Rectangle26_6, bool) {
	if strings.TrimSpace(s) == "" {
		return fixed.Rectangle26_6{}, false
	}
	b, _ := font.BoundString(face, s)
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
		return fixed.Rectangle26_6{}, false
	}
	return b, true
}

// drawTextBox draws s so that its measured box starts at (x, y).
func drawTextBox(dst draw.Image, face font.Face, x, y int, s string, c color.Color) {
	dot := fixed.P(x, y)
	if b, ok := inkBounds(face, s); ok {
		dot = fixed.Point26_6{X: dot.X - b.Min.X, Y: dot.Y - b.Min.Y}
	} else {
		dot.Y += face.Metrics().Ascent
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face, Dot: dot}
	d.DrawString(s)
}

// drawTextLine draws s with the top of its line (the ascender) at y.
func drawTextLine(dst draw.Image, face font.Face, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

// WrapText splits text greedily into lines no wider than maxWidth. A word
// that alone exceeds maxWidth gets a line of its own.
func WrapText(face font.Face, text string, maxWidth int) []string {
	var lines, current []string
	for _, word := range strings.Fields(text) {
		candidate := strings.Join(append(current, word), " ")
		if w, _ := MeasureText(face, candidate); w <= maxWidth {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
		} else {
			lines = append(lines, word)
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

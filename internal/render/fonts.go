package render

import (
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontPaths are tried in order before falling back to a built-in face.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Arial.ttf",
	"arial.ttf",
}

const (
	sourceBuiltin = "builtin:goregular"
	sourceBitmap  = "builtin:basicfont"
)

// LoadFace returns a face of the given pixel size from the first path that
// parses, then the embedded Go Regular font, then a fixed 7x13 bitmap face.
// It never fails; the second result names the source that was used.
func LoadFace(size float64, paths []string, logger *slog.Logger) (font.Face, string) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		face, err := newFace(data, size)
		if err != nil {
			logger.Debug("render.font.unusable", "path", p, "error", err)
			continue
		}
		return face, p
	}
	if face, err := newFace(goregular.TTF, size); err == nil {
		return face, sourceBuiltin
	}
	return basicfont.Face7x13, sourceBitmap
}

func newFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	// 72 DPI makes Size a pixel size.
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

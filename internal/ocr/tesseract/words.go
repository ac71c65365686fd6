package tesseract

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// wordsFromBoxes keeps non-blank words and rescales confidence from 0..100 to 0..1.
func wordsFromBoxes(boxes []gosseract.BoundingBox) []entity.WordBox {
	words := make([]entity.WordBox, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" || b.Box.Empty() {
			continue
		}
		conf := b.Confidence / 100.0
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		words = append(words, entity.WordBox{
			Text:       text,
			Confidence: conf,
			BBox:       entity.NewBBox(b.Box.Min.X, b.Box.Min.Y, b.Box.Max.X, b.Box.Max.Y),
		})
	}
	return words
}

// enhance boosts handwriting contrast. Geometry is untouched so boxes map back 1:1.
func enhance(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	return img
}

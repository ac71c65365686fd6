package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

const (
	boxStroke      = 3
	boxLabelSize   = 12
	boxLabelRunes  = 30
	boxLabelLift   = 20
	boxLabelHeight = 16
)

// RegionLabel is the caption drawn above each region in the debug image.
func RegionLabel(r entity.Region) string {
	text := []rune(r.Text)
	if len(text) > boxLabelRunes {
		text = text[:boxLabelRunes]
	}
	return fmt.Sprintf("ID:%d (%d): %s...", r.ID, r.SourceCount, string(text))
}

// DrawRegions returns a copy of src with every region outlined in a cycling
// color and captioned with its id, member count and leading text.
func (r *Renderer) DrawRegions(src image.Image, regions []entity.Region) *image.NRGBA {
	img := imaging.Clone(src)
	face, _ := LoadFace(boxLabelSize, r.fontPaths, r.logger)

	for i, reg := range regions {
		c := boxPalette[i%len(boxPalette)]
		b := reg.BBox
		strokeRect(img, image.Rect(b.Left(), b.Top(), b.Right(), b.Bottom()), boxStroke, c)

		label := RegionLabel(reg)
		y := max(0, b.Top()-boxLabelLift)
		if y+boxLabelHeight > b.Top() {
			y = b.Bottom() + 4
		}
		tw, th := MeasureText(face, label)
		bg := image.Rect(b.Left(), y, b.Left()+tw, y+th)
		draw.Draw(img, bg.Intersect(img.Bounds()), image.NewUniform(white), image.Point{}, draw.Src)
		strokeRect(img, image.Rect(bg.Min.X, bg.Min.Y, bg.Max.X-1, bg.Max.Y-1), 1, c)
		drawTextBox(img, face, b.Left(), y, label, c)
	}
	return img
}

// VisualizeRegions writes the DrawRegions image to outPath; the format
// follows the extension.
func (r *Renderer) VisualizeRegions(src image.Image, regions []entity.Region, outPath string) error {
	if err := imaging.Save(r.DrawRegions(src, regions), outPath, imaging.JPEGQuality(92)); err != nil {
		return fmt.Errorf("save region preview: %w", err)
	}
	r.logger.Info("render.regions.ok", "path", outPath, "regions", len(regions))
	return nil
}

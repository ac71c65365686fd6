package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// Label is a corrected-text label that was placed on the overlay.
type Label struct {
	CorrectionID int
	Text         string
	Box          image.Rectangle
}

// Report summarises what an overlay contains.
type Report struct {
	OverlayPath   string
	CompositePath string
	FontSource    string
	Checkmarks    int
	Outlines      int
	Labels        []Label
	Skipped       int
	Footer        []TextItem
}

// Renderer builds overlays and composites.
type Renderer struct {
	fontPaths []string
	logger    *slog.Logger
}

// NewRenderer returns a renderer that tries fontPaths before DefaultFontPaths.
func NewRenderer(fontPaths []string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	paths := append(append([]string{}, fontPaths...), DefaultFontPaths...)
	return &Renderer{fontPaths: paths, logger: logger}
}

// BuildOverlay draws marks for every correction, in order, plus the footer
// onto a transparent canvas of the source size extended by the footer.
// Corrections without a positive-area box are skipped.
func (r *Renderer) BuildOverlay(size image.Point, corrections []entity.Correction, a entity.Assessment, fontSize int) (*image.RGBA, Report) {
	imgW, imgH := size.X, size.Y
	overlay := image.NewRGBA(image.Rect(0, 0, imgW, imgH+FooterHeight(fontSize)))

	face, source := LoadFace(float64(fontSize), r.fontPaths, r.logger)
	rep := Report{FontSource: source}
	ms := MarkSize(fontSize)

	for _, c := range corrections {
		if c.BBox == nil || !c.BBox.IsRenderable() {
			rep.Skipped++
			r.logger.Debug("render.skip_correction", "id", c.ID, "bbox", c.BBox)
			continue
		}
		b := *c.BBox

		switch c.Status {
		case constants.StatusCorrect:
			p := CheckmarkPoints(b, ms)
			strokeSegment(overlay, p[0], p[1], checkWidth, checkGreen)
			strokeSegment(overlay, p[1], p[2], checkWidth, checkGreen)
			rep.Checkmarks++
		case constants.StatusIncorrect:
			if c.Marking == constants.MarkingCircle {
				strokeEllipse(overlay, EllipseBounds(b, ms), outlineWidth, outlineRed)
			} else {
				strokeRect(overlay, RectangleBounds(b, ms), outlineWidth, outlineRed)
			}
			rep.Outlines++
			if c.NeedsLabel() {
				rep.Labels = append(rep.Labels, r.drawLabel(overlay, face, b, ms, c, imgW, imgH))
			}
		}
	}

	rep.Footer = LayoutFooter(face, a, imgW, imgH, fontSize)
	drawItems(overlay, face, rep.Footer)
	return overlay, rep
}

func (r *Renderer) drawLabel(dst *image.RGBA, face font.Face, b entity.BBox, ms int, c entity.Correction, imgW, imgH int) Label {
	tw, th := MeasureText(face, c.CorrectedText)
	at := PlaceLabel(b, ms, tw, th, imgW, imgH)
	drawTextBox(dst, face, at.X, at.Y, c.CorrectedText, labelRed)
	return Label{
		CorrectionID: c.ID,
		Text:         c.CorrectedText,
		Box:          image.Rect(at.X, at.Y, at.X+tw, at.Y+th),
	}
}

// Composite pastes src onto an opaque white canvas the size of overlay and
// alpha-composites overlay on top.
func Composite(src image.Image, overlay image.Image) *image.NRGBA {
	ob := overlay.Bounds()
	canvas := imaging.New(ob.Dx(), ob.Dy(), color.White)
	canvas = imaging.Paste(canvas, src, image.Pt(0, 0))
	return imaging.Overlay(canvas, overlay, image.Pt(0, 0), 1.0)
}

// CompositePath inserts the "_complete" suffix before the extension of outPath.
func CompositePath(outPath string) string {
	ext := filepath.Ext(outPath)
	return strings.TrimSuffix(outPath, ext) + constants.CompositeSuffix + ext
}

// Render writes the overlay to outPath and the composite next to it. A path
// without an extension is saved as PNG.
func (r *Renderer) Render(src image.Image, corrections []entity.Correction, a entity.Assessment, fontSize int, outPath string) (Report, error) {
	start := time.Now()
	if filepath.Ext(outPath) == "" {
		outPath += ".png"
	}

	overlay, rep := r.BuildOverlay(src.Bounds().Size(), corrections, a, fontSize)
	if err := imaging.Save(overlay, outPath); err != nil {
		return rep, fmt.Errorf("save overlay: %w", err)
	}
	rep.OverlayPath = outPath

	rep.CompositePath = CompositePath(outPath)
	if err := imaging.Save(Composite(src, overlay), rep.CompositePath); err != nil {
		return rep, fmt.Errorf("save composite: %w", err)
	}

	r.logger.Info("render.ok",
		"overlay", rep.OverlayPath,
		"composite", rep.CompositePath,
		"font", rep.FontSource,
		"checkmarks", rep.Checkmarks,
		"outlines", rep.Outlines,
		"labels", len(rep.Labels),
		"skipped", rep.Skipped,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rep, nil
}

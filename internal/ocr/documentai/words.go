package documentai

import (
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
)

// wordsFromDocument flattens page tokens into word boxes in document order.
func wordsFromDocument(doc *documentaipb.Document) []entity.WordBox {
	if doc == nil {
		return nil
	}
	runes := []rune(doc.GetText())
	var words []entity.WordBox
	for _, page := range doc.GetPages() {
		for _, tok := range page.GetTokens() {
			layout := tok.GetLayout()
			text := strings.TrimSpace(anchorText(layout.GetTextAnchor(), runes))
			if text == "" {
				continue
			}
			box, ok := polyBox(layout.GetBoundingPoly(), page.GetDimension())
			if !ok {
				continue
			}
			conf := float64(layout.GetConfidence())
			if conf <= 0 {
				conf = ocr.DefaultConfidence
			}
			words = append(words, entity.WordBox{Text: text, Confidence: math.Round(conf*1000) / 1000, BBox: box})
		}
	}
	return words
}

func anchorText(anchor *documentaipb.Document_TextAnchor, runes []rune) string {
	var sb strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start, end := int(seg.GetStartIndex()), int(seg.GetEndIndex())
		start = max(0, min(start, len(runes)))
		end = max(start, min(end, len(runes)))
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

// polyBox prefers pixel vertices and falls back to normalized vertices scaled by the page size.
func polyBox(poly *documentaipb.BoundingPoly, dim *documentaipb.Document_Page_Dimension) (entity.BBox, bool) {
	var xs, ys []float64
	if vs := poly.GetVertices(); len(vs) > 0 {
		for _, v := range vs {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	} else if nvs := poly.GetNormalizedVertices(); len(nvs) > 0 && dim.GetWidth() > 0 && dim.GetHeight() > 0 {
		w, h := float64(dim.GetWidth()), float64(dim.GetHeight())
		for _, v := range nvs {
			xs = append(xs, float64(v.GetX())*w)
			ys = append(ys, float64(v.GetY())*h)
		}
	}
	if len(xs) == 0 {
		return entity.BBox{}, false
	}
	x1, x2 := minMax(xs)
	y1, y2 := minMax(ys)
	return entity.NewBBox(
		int(math.Round(x1)), int(math.Round(y1)),
		int(math.Round(x2)), int(math.Round(y2)),
	), true
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

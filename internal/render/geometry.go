package render

import (
	"image"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

const (
	checkWidth   = 8
	outlineWidth = 5
	labelGap     = 10
	labelLift    = 5
)

// MarkSize derives the checkmark and padding scale from the font size.
func MarkSize(fontSize int) int {
	return int(float64(fontSize) * 1.2)
}

// CheckmarkPoints returns the three vertices of the two-segment checkmark
// drawn to the right of b at its vertical midpoint.
func CheckmarkPoints(b entity.BBox, markSize int) [3]image.Point {
	x := b.Right() + 10
	y := floorDiv(b.Top()+b.Bottom(), 2)
	ms := float64(markSize)
	short := int(ms / 1.5)
	return [3]image.Point{
		{X: x, Y: y},
		{X: x + short, Y: y + short},
		{X: x + int(ms*2.0), Y: y - int(ms/2)},
	}
}

// EllipseBounds pads b by markSize/4 on every side.
func EllipseBounds(b entity.BBox, markSize int) image.Rectangle {
	return pad(b, floorDiv(markSize, 4))
}

// RectangleBounds pads b by markSize/5 on every side.
func RectangleBounds(b entity.BBox, markSize int) image.Rectangle {
	return pad(b, floorDiv(markSize, 5))
}

func pad(b entity.BBox, p int) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(b.Left()-p, b.Top()-p),
		Max: image.Pt(b.Right()+p, b.Bottom()+p),
	}
}

// PlaceLabel picks the top-left corner for a textW x textH label beside b on
// an imgW x imgH image. It prefers the right of the box at its top edge, then
// the left, then above the box, then below, and finally clamps the result
// into [0, imgW-textW] x [0, imgH-textH].
func PlaceLabel(b entity.BBox, markSize, textW, textH, imgW, imgH int) image.Point {
	x := b.Right() + markSize + labelGap
	y := b.Top()
	if x+textW > imgW {
		x = b.Left() - textW - labelGap
		if x < 0 {
			x = b.Left()
			y = b.Top() - textH - labelLift
			if y < 0 {
				y = b.Bottom() + labelLift
			}
		}
	}
	x = max(0, min(x, imgW-textW))
	y = max(0, min(y, imgH-textH))
	return image.Pt(x, y)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

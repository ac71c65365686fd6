package render

import (
	"image"
	"testing"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

func TestMarkSize(t *testing.T) {
	if got := MarkSize(32); got != 38 {
		t.Fatalf("MarkSize(32) = %d, want 38", got)
	}
	if got := MarkSize(10); got != 12 {
		t.Fatalf("MarkSize(10) = %d, want 12", got)
	}
}

func TestCheckmarkPoints(t *testing.T) {
	got := CheckmarkPoints(entity.NewBBox(0, 0, 40, 20), 38)
	want := [3]image.Point{{50, 10}, {75, 35}, {126, -9}}
	if got != want {
		t.Fatalf("CheckmarkPoints() = %v, want %v", got, want)
	}
}

func TestOutlineBounds(t *testing.T) {
	b := entity.NewBBox(100, 100, 200, 150)
	if got, want := EllipseBounds(b, 38), image.Rect(91, 91, 209, 159); got != want {
		t.Errorf("EllipseBounds() = %v, want %v", got, want)
	}
	if got, want := RectangleBounds(b, 38), image.Rect(93, 93, 207, 157); got != want {
		t.Errorf("RectangleBounds() = %v, want %v", got, want)
	}
}

func TestPlaceLabel(t *testing.T) {
	const ms = 38
	tests := []struct {
		name       string
		box        entity.BBox
		tw, th     int
		imgW, imgH int
		want       image.Point
	}{
		{"right of box", entity.NewBBox(100, 100, 200, 140), 80, 30, 1000, 800, image.Pt(248, 100)},
		{"left when right overflows", entity.NewBBox(700, 100, 900, 140), 80, 30, 1000, 800, image.Pt(610, 100)},
		{"above when both sides overflow", entity.NewBBox(20, 100, 950, 140), 80, 30, 1000, 800, image.Pt(20, 65)},
		{"below when above is off-canvas", entity.NewBBox(20, 10, 950, 40), 80, 30, 1000, 800, image.Pt(20, 45)},
		{"clamped to bottom", entity.NewBBox(20, 10, 950, 790), 80, 30, 1000, 800, image.Pt(20, 770)},
		{"clamped to right", entity.NewBBox(950, 100, 990, 140), 980, 30, 1000, 800, image.Pt(20, 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlaceLabel(tt.box, ms, tt.tw, tt.th, tt.imgW, tt.imgH); got != tt.want {
				t.Errorf("PlaceLabel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaceLabelStaysOnCanvas(t *testing.T) {
	const imgW, imgH = 640, 480
	for _, size := range [][2]int{{1, 1}, {60, 20}, {200, 40}, {639, 479}} {
		tw, th := size[0], size[1]
		for x := -50; x < imgW+50; x += 37 {
			for y := -50; y < imgH+50; y += 29 {
				b := entity.NewBBox(x, y, x+45, y+25)
				p := PlaceLabel(b, 38, tw, th, imgW, imgH)
				if p.X < 0 || p.Y < 0 || p.X+tw > imgW || p.Y+th > imgH {
					t.Fatalf("label %dx%d for %+v placed off-canvas at %v", tw, th, b, p)
				}
			}
		}
	}
}

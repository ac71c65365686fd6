package cluster

import (
	"math"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// HorizontalGap is the distance between the facing vertical edges of a and b,
// or 0 when their x-ranges overlap.
func HorizontalGap(a, b entity.BBox) int {
	if b.Left() >= a.Right() {
		return b.Left() - a.Right()
	}
	if a.Left() >= b.Right() {
		return a.Left() - b.Right()
	}
	return 0
}

// HorizontallyMergeable reports whether a and b sit on the same line and close enough.
func HorizontallyMergeable(a, b entity.BBox, cfg Config) bool {
	_, ay := a.Center()
	_, by := b.Center()
	if math.Abs(ay-by) > float64(cfg.HorizontalAlignmentTolerance) {
		return false
	}
	return HorizontalGap(a, b) <= cfg.MaxHorizontalGap
}

// VerticallyMergeable reports whether one box sits directly below the other.
func VerticallyMergeable(a, b entity.BBox, cfg Config) bool {
	ax, _ := a.Center()
	bx, _ := b.Center()
	if math.Abs(ax-bx) > float64(cfg.VerticalAlignmentTolerance) {
		return false
	}
	if b.Top() >= a.Bottom() && b.Top()-a.Bottom() <= cfg.MaxVerticalGap {
		return true
	}
	return a.Top() >= b.Bottom() && a.Top()-b.Bottom() <= cfg.MaxVerticalGap
}

// ShouldMerge is the symmetric merge predicate.
func ShouldMerge(a, b entity.BBox, cfg Config) bool {
	return HorizontallyMergeable(a, b, cfg) || VerticallyMergeable(a, b, cfg)
}

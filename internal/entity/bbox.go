package entity

// BBox is an axis-aligned rectangle in image pixel coordinates (origin top-left).
type BBox struct {
	TopLeft     [2]int `json:"top_left"`
	BottomRight [2]int `json:"bottom_right"`
}

func NewBBox(x1, y1, x2, y2 int) BBox {
	return BBox{TopLeft: [2]int{x1, y1}, BottomRight: [2]int{x2, y2}}
}

func (b BBox) Left() int   { return b.TopLeft[0] }
func (b BBox) Top() int    { return b.TopLeft[1] }
func (b BBox) Right() int  { return b.BottomRight[0] }
func (b BBox) Bottom() int { return b.BottomRight[1] }

func (b BBox) Width() int  { return b.BottomRight[0] - b.TopLeft[0] }
func (b BBox) Height() int { return b.BottomRight[1] - b.TopLeft[1] }

// Center returns the box midpoint.
func (b BBox) Center() (float64, float64) {
	return float64(b.TopLeft[0]+b.BottomRight[0]) / 2, float64(b.TopLeft[1]+b.BottomRight[1]) / 2
}

// IsRenderable reports whether the box has a strictly positive area.
func (b BBox) IsRenderable() bool {
	return b.Width() > 0 && b.Height() > 0
}

// Union returns the smallest box enclosing both b and o.
func (b BBox) Union(o BBox) BBox {
	return NewBBox(
		min(b.TopLeft[0], o.TopLeft[0]),
		min(b.TopLeft[1], o.TopLeft[1]),
		max(b.BottomRight[0], o.BottomRight[0]),
		max(b.BottomRight[1], o.BottomRight[1]),
	)
}

// Contains reports whether o lies entirely inside b.
func (b BBox) Contains(o BBox) bool {
	return o.TopLeft[0] >= b.TopLeft[0] && o.TopLeft[1] >= b.TopLeft[1] &&
		o.BottomRight[0] <= b.BottomRight[0] && o.BottomRight[1] <= b.BottomRight[1]
}

package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

func newRasterizer(dst draw.Image) *vector.Rasterizer {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

func paint(z *vector.Rasterizer, dst draw.Image, c color.Color) {
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// strokeSegment draws a straight line of the given width from p to q with flat caps.
func strokeSegment(dst draw.Image, p, q image.Point, width float64, c color.Color) {
	dx, dy := float64(q.X-p.X), float64(q.Y-p.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	origin := dst.Bounds().Min
	px, py := float64(p.X-origin.X), float64(p.Y-origin.Y)
	qx, qy := float64(q.X-origin.X), float64(q.Y-origin.Y)

	z := newRasterizer(dst)
	z.MoveTo(float32(px+nx), float32(py+ny))
	z.LineTo(float32(qx+nx), float32(qy+ny))
	z.LineTo(float32(qx-nx), float32(qy-ny))
	z.LineTo(float32(px-nx), float32(py-ny))
	z.ClosePath()
	paint(z, dst, c)
}

// strokeRect outlines r (inclusive corners) with a border growing inward.
func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	// PIL-style inclusive corners.
	r.Max = r.Max.Add(image.Pt(1, 1))
	if width*2 >= r.Dx() || width*2 >= r.Dy() {
		fillRect(dst, r, c)
		return
	}
	src := image.NewUniform(c)
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width),
		image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width),
	}
	for _, band := range bands {
		draw.Draw(dst, band.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// strokeEllipse outlines the ellipse inscribed in r with a ring of the
// given width growing inward.
func strokeEllipse(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	origin := dst.Bounds().Min
	x0, y0 := float64(r.Min.X-origin.X), float64(r.Min.Y-origin.Y)
	x1, y1 := float64(r.Max.X-origin.X+1), float64(r.Max.Y-origin.Y+1)
	cx, cy := (x0+x1)/2, (y0+y1)/2
	rx, ry := (x1-x0)/2, (y1-y0)/2
	if rx <= 0 || ry <= 0 {
		return
	}

	z := newRasterizer(dst)
	ellipsePath(z, cx, cy, rx, ry, false)
	w := float64(width)
	if rx > w && ry > w {
		// The inner path runs the other way so its coverage cancels.
		ellipsePath(z, cx, cy, rx-w, ry-w, true)
	}
	paint(z, dst, c)
}

func ellipsePath(z *vector.Rasterizer, cx, cy, rx, ry float64, reverse bool) {
	kx, ky := rx*kappa, ry*kappa
	f := func(v float64) float32 { return float32(v) }

	z.MoveTo(f(cx+rx), f(cy))
	if !reverse {
		z.CubeTo(f(cx+rx), f(cy+ky), f(cx+kx), f(cy+ry), f(cx), f(cy+ry))
		z.CubeTo(f(cx-kx), f(cy+ry), f(cx-rx), f(cy+ky), f(cx-rx), f(cy))
		z.CubeTo(f(cx-rx), f(cy-ky), f(cx-kx), f(cy-ry), f(cx), f(cy-ry))
		z.CubeTo(f(cx+kx), f(cy-ry), f(cx+rx), f(cy-ky), f(cx+rx), f(cy))
	} else {
		z.CubeTo(f(cx+rx), f(cy-ky), f(cx+kx), f(cy-ry), f(cx), f(cy-ry))
		z.CubeTo(f(cx-kx), f(cy-ry), f(cx-rx), f(cy-ky), f(cx-rx), f(cy))
		z.CubeTo(f(cx-rx), f(cy+ky), f(cx-kx), f(cy+ry), f(cx), f(cy+ry))
		z.CubeTo(f(cx+kx), f(cy+ry), f(cx+rx), f(cy+ky), f(cx+rx), f(cy))
	}
	z.ClosePath()
}

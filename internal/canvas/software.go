package canvas

import (
	"math"

	"github.com/tercen/ggrs-plot-operator/internal/canvas/path"
	"github.com/tercen/ggrs-plot-operator/internal/canvas/raster"
)

// SoftwareRenderer is a CPU-based scanline rasterizer using 4x supersampled
// anti-aliasing. It is the only renderer this package ships: there is no
// GPU backend, because every image this worker produces is rendered once
// and thrown away, never re-rendered at interactive frame rates.
type SoftwareRenderer struct {
	rasterizer *raster.Rasterizer
}

// NewSoftwareRenderer creates a renderer sized for the given pixmap dimensions.
func NewSoftwareRenderer(width, height int) *SoftwareRenderer {
	return &SoftwareRenderer{rasterizer: raster.NewRasterizer(width, height)}
}

// pixmapAdapter adapts Pixmap to raster.AAPixmap.
type pixmapAdapter struct {
	pixmap *Pixmap
}

func (p *pixmapAdapter) Width() int  { return p.pixmap.Width() }
func (p *pixmapAdapter) Height() int { return p.pixmap.Height() }

func (p *pixmapAdapter) SetPixel(x, y int, c raster.RGBA) {
	p.pixmap.SetPixel(x, y, RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

// BlendPixelAlpha implements raster.AAPixmap using source-over compositing.
func (p *pixmapAdapter) BlendPixelAlpha(x, y int, c raster.RGBA, alpha uint8) {
	if alpha == 0 {
		return
	}
	if x < 0 || x >= p.pixmap.Width() || y < 0 || y >= p.pixmap.Height() {
		return
	}
	if alpha == 255 && c.A == 1.0 {
		p.pixmap.SetPixel(x, y, RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		return
	}

	existing := p.pixmap.GetPixel(x, y)
	srcAlpha := c.A * float64(alpha) / 255.0
	invSrcAlpha := 1.0 - srcAlpha

	outA := srcAlpha + existing.A*invSrcAlpha
	if outA > 0 {
		outR := (c.R*srcAlpha + existing.R*existing.A*invSrcAlpha) / outA
		outG := (c.G*srcAlpha + existing.G*existing.A*invSrcAlpha) / outA
		outB := (c.B*srcAlpha + existing.B*existing.A*invSrcAlpha) / outA
		p.pixmap.SetPixel(x, y, RGBA{R: outR, G: outG, B: outB, A: outA})
	}
}

// convertPath converts canvas Path elements to path.PathElement for flattening.
func convertPath(p *Path) []path.PathElement {
	var elements []path.PathElement
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			elements = append(elements, path.MoveTo{Point: path.Point{X: e.Point.X, Y: e.Point.Y}})
		case LineTo:
			elements = append(elements, path.LineTo{Point: path.Point{X: e.Point.X, Y: e.Point.Y}})
		case CubicTo:
			elements = append(elements, path.CubicTo{
				Control1: path.Point{X: e.Control1.X, Y: e.Control1.Y},
				Control2: path.Point{X: e.Control2.X, Y: e.Control2.Y},
				Point:    path.Point{X: e.Point.X, Y: e.Point.Y},
			})
		case Close:
			elements = append(elements, path.Close{})
		}
	}
	return elements
}

func convertPoints(points []path.Point) []raster.Point {
	result := make([]raster.Point, len(points))
	for i, p := range points {
		result[i] = raster.Point{X: p.X, Y: p.Y}
	}
	return result
}

// Fill rasterizes p with 4x supersampled anti-aliasing.
func (r *SoftwareRenderer) Fill(pixmap *Pixmap, p *Path, paint *Paint) error {
	elements := convertPath(p)
	flattened := path.Flatten(elements)
	points := convertPoints(flattened)

	fillRule := raster.FillRuleNonZero
	if paint.FillRule == FillRuleEvenOdd {
		fillRule = raster.FillRuleEvenOdd
	}

	adapter := &pixmapAdapter{pixmap: pixmap}
	r.rasterizer.FillAA(adapter, points, fillRule, raster.RGBA{
		R: paint.Color.R, G: paint.Color.G, B: paint.Color.B, A: paint.Color.A,
	})
	return nil
}

// Stroke draws straight-line segments of the path as thin filled quads,
// then anti-aliases each quad with Fill. Only straight segments are
// supported: gridlines, axis ticks and panel borders never curve, so there
// is no call for the upstream library's full bezier stroke expander.
func (r *SoftwareRenderer) Stroke(pixmap *Pixmap, p *Path, paint *Paint) error {
	halfWidth := paint.LineWidth / 2
	if halfWidth <= 0 {
		halfWidth = 0.5
	}

	var cur, start Point
	have := false
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			cur = e.Point
			start = e.Point
			have = true
		case LineTo:
			if have {
				if err := r.strokeSegment(pixmap, cur, e.Point, halfWidth, paint); err != nil {
					return err
				}
			}
			cur = e.Point
			have = true
		case Close:
			if have && cur != start {
				if err := r.strokeSegment(pixmap, cur, start, halfWidth, paint); err != nil {
					return err
				}
			}
			cur = start
			have = false
		}
	}
	return nil
}

// strokeSegment fills the rectangle swept by a line segment of the given
// half-width, perpendicular to the segment direction.
func (r *SoftwareRenderer) strokeSegment(pixmap *Pixmap, a, b Point, halfWidth float64, paint *Paint) error {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := (dx*dx + dy*dy)
	if length == 0 {
		return nil
	}
	inv := 1.0 / math.Sqrt(length)
	nx := -dy * inv * halfWidth
	ny := dx * inv * halfWidth

	quad := NewPath()
	quad.MoveTo(a.X+nx, a.Y+ny)
	quad.LineTo(b.X+nx, b.Y+ny)
	quad.LineTo(b.X-nx, b.Y-ny)
	quad.LineTo(a.X-nx, a.Y-ny)
	quad.Close()

	quadPaint := &Paint{Color: paint.Color, FillRule: FillRuleNonZero}
	return r.Fill(pixmap, quad, quadPaint)
}

// Package raster provides scanline rasterization for 2D paths.
//
// The only fill path this worker exercises is the 4x-supersampled
// anti-aliased one in raster_aa.go: every image the pipeline produces is
// panel chrome, scatter markers or tile cells, and none of that benefits
// from an aliased fast path. The non-AA scanline filler and stroker the
// upstream rasterizer ships alongside it are not compiled in here.
package raster

// RGBA represents a color (internal copy to avoid import cycle).
type RGBA struct {
	R, G, B, A float64
}

// Pixmap is an interface for writing pixels (avoids import cycle).
type Pixmap interface {
	Width() int
	Height() int
	SetPixel(x, y int, c RGBA)
}

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Rasterizer performs scanline rasterization.
type Rasterizer struct {
	width  int
	height int
	aet    *ActiveEdgeTable
}

// NewRasterizer creates a new rasterizer for the given dimensions.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		width:  width,
		height: height,
		aet:    NewActiveEdgeTable(),
	}
}

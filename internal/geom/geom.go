// Package geom implements the two geoms this worker draws: Point
// (scatter markers) and Tile (heatmap cells). Both share the Renderer
// interface so the stream driver can dispatch without a type switch.
package geom

import (
	"image"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tercen/ggrs-plot-operator/internal/canvas"
	"github.com/tercen/ggrs-plot-operator/internal/facet"
	"github.com/tercen/ggrs-plot-operator/internal/panel"
	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
	"github.com/tercen/ggrs-plot-operator/internal/quant"
)

// Renderer is the shared geom contract. RenderChunk is called once per
// (panel, chunk) pair with that chunk's routed bucket; Finish is called
// once after the last chunk, letting geoms that must see every row
// before they can draw (Tile) defer rasterization. Point's Finish is a
// no-op since it draws incrementally. Colors reports every distinct hex
// color the geom has accepted so far, for the shared legend.
type Renderer interface {
	RenderChunk(panelIdx int, ctx panel.Context, bucket facet.Bucket) error
	Finish(lookup func(panelIdx int) panel.Context) error
	Colors() map[string]struct{}
}

// DotsPerMM is the fixed device resolution (96 DPI / 25.4 mm-per-inch)
// used to convert a Point geom's size_mm into a pixel radius.
const DotsPerMM = 96.0 / 25.4

// DefaultColor is used for Point rows that carry no color aesthetic.
var DefaultColor = canvas.Black

// Point renders a filled circle per row, dequantized through the
// panel's axis ranges and transformed into pixel space.
type Point struct {
	SizeMM float64
	seen   map[string]struct{}
}

// NewPoint builds a Point renderer with the given marker radius in
// millimeters (1.5mm when sizeMM <= 0).
func NewPoint(sizeMM float64) *Point {
	if sizeMM <= 0 {
		sizeMM = 1.5
	}
	return &Point{SizeMM: sizeMM, seen: make(map[string]struct{})}
}

// Colors implements Renderer.
func (p *Point) Colors() map[string]struct{} { return p.seen }

func (p *Point) radiusPx() float64 {
	return math.Round(p.SizeMM * DotsPerMM)
}

// RenderChunk draws every tuple in bucket immediately as a filled
// circle; missing color defaults to opaque black.
func (p *Point) RenderChunk(_ int, ctx panel.Context, bucket facet.Bucket) error {
	r := p.radiusPx()
	for _, t := range bucket {
		pt := quant.DequantizePoint(t.XS, t.YS, ctx.XRange, ctx.YRange)
		px, py := ctx.ToPixel(pt.X, pt.Y)

		col := DefaultColor
		if t.Color != nil {
			c, err := canvas.ParseHexColor(*t.Color)
			if err != nil {
				return ploterrors.Wrap(ploterrors.KindInvalidColor, "point geom: "+*t.Color, err)
			}
			col = c
			p.seen[*t.Color] = struct{}{}
		}

		ctx.Canvas.SetColor(col)
		ctx.Canvas.DrawCircle(px, py, r)
		if err := ctx.Canvas.Fill(); err != nil {
			return ploterrors.Wrap(ploterrors.KindRenderBackend, "point geom fill", err)
		}
	}
	return nil
}

// Finish is a no-op: Point never defers drawing past the chunk it
// belongs to.
func (p *Point) Finish(func(int) panel.Context) error { return nil }

// Tile renders a filled rectangle per unique (xs, ys) position. Tile
// dimensions depend on the full set of unique positions seen across
// every chunk for a panel, so Tile buffers every row for a panel and
// draws once, in Finish, rather than committing to a first-chunk
// estimate of the unique-position counts.
type Tile struct {
	buffered map[int]facet.Bucket
	seen     map[string]struct{}
}

// NewTile builds an empty Tile renderer.
func NewTile() *Tile {
	return &Tile{buffered: make(map[int]facet.Bucket), seen: make(map[string]struct{})}
}

// Colors implements Renderer.
func (tl *Tile) Colors() map[string]struct{} { return tl.seen }

// RenderChunk validates that every row carries a fill color (a tile
// geom with a missing color is a fatal configuration error, not a
// silent default) and buffers the bucket for Finish.
func (tl *Tile) RenderChunk(panelIdx int, _ panel.Context, bucket facet.Bucket) error {
	for _, t := range bucket {
		if t.Color == nil {
			return ploterrors.New(ploterrors.KindMissingFill, "tile geom: row with no color")
		}
		tl.seen[*t.Color] = struct{}{}
	}
	tl.buffered[panelIdx] = append(tl.buffered[panelIdx], bucket...)
	return nil
}

// Finish draws every panel's buffered tuples once the full row set is
// known: tile pixel size is derived from the count of distinct
// quantized x and y positions observed for that panel.
func (tl *Tile) Finish(lookup func(int) panel.Context) error {
	for panelIdx, bucket := range tl.buffered {
		ctx := lookup(panelIdx)
		nx, ny := uniqueCounts(bucket)
		tileWpx := float64(ctx.WidthPx) / float64(maxInt(1, nx))
		tileHpx := float64(ctx.HeightPx) / float64(maxInt(1, ny))

		tileWdata := tileWpx / ctx.Rect.W * ctx.XRange.Span()
		tileHdata := tileHpx / ctx.Rect.H * ctx.YRange.Span()

		for _, t := range bucket {
			pt := quant.DequantizePoint(t.XS, t.YS, ctx.XRange, ctx.YRange)
			col, err := canvas.ParseHexColor(*t.Color)
			if err != nil {
				return ploterrors.Wrap(ploterrors.KindInvalidColor, "tile geom: "+*t.Color, err)
			}

			x0, y0 := ctx.ToPixel(pt.X-tileWdata/2, pt.Y-tileHdata/2)
			x1, y1 := ctx.ToPixel(pt.X+tileWdata/2, pt.Y+tileHdata/2)
			if x1 < x0 {
				x0, x1 = x1, x0
			}
			if y1 < y0 {
				y0, y1 = y1, y0
			}

			ctx.Canvas.SetColor(col)
			ctx.Canvas.DrawRectangle(x0, y0, x1-x0, y1-y0)
			if err := ctx.Canvas.Fill(); err != nil {
				return ploterrors.Wrap(ploterrors.KindRenderBackend, "tile geom fill", err)
			}
		}
	}
	return nil
}

func uniqueCounts(bucket facet.Bucket) (nx, ny int) {
	xs := make(map[uint16]struct{})
	ys := make(map[uint16]struct{})
	for _, t := range bucket {
		xs[t.XS] = struct{}{}
		ys[t.YS] = struct{}{}
	}
	return len(xs), len(ys)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// LegendSwatch is one entry in the color legend: a filled color and its
// display label. internal/panel draws the legend frame; geom supplies
// the swatches since it owns the color aesthetic.
type LegendSwatch struct {
	Color canvas.RGBA
	Label string
}

// BuildLegend turns the set of hex colors observed while rendering into
// a stable, sorted legend swatch list. Rows with no color never reach
// here (Point substitutes DefaultColor, Tile rejects missing color
// outright), so every swatch corresponds to a color actually drawn.
func BuildLegend(seen map[string]struct{}) []LegendSwatch {
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	swatches := make([]LegendSwatch, 0, len(keys))
	for _, k := range keys {
		c, err := canvas.ParseHexColor(k)
		if err != nil {
			continue
		}
		swatches = append(swatches, LegendSwatch{Color: c, Label: k})
	}
	return swatches
}

// DrawLegend paints one swatch rectangle and its color label per entry,
// stacked vertically inside rect.
func DrawLegend(ctx *canvas.Context, rect panel.Rect, swatches []LegendSwatch) {
	const rowH = 18
	const pad = 6
	const swatchSize = 12
	face := basicfont.Face7x13
	textColor := canvas.RGB(0.15, 0.15, 0.15)
	for i, sw := range swatches {
		y := rect.Y + pad + float64(i)*rowH
		if y+rowH > rect.Y+rect.H {
			break
		}
		ctx.SetColor(sw.Color)
		ctx.DrawRectangle(rect.X+pad, y, swatchSize, swatchSize)
		_ = ctx.Fill()

		d := &font.Drawer{
			Dst:  ctx.Pixmap(),
			Src:  image.NewUniform(textColor),
			Face: face,
			Dot:  fixed.P(int(rect.X+pad+swatchSize+pad), int(y+swatchSize-2)),
		}
		d.DrawString(sw.Label)
	}
}

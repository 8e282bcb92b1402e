// Package panel builds the multi-panel layout: reserved chrome bands
// (title, axis labels, facet strips, legend) and the uniform grid of
// per-panel drawing rectangles, then draws that chrome onto the shared
// pixel surface before any data is rendered.
package panel

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tercen/ggrs-plot-operator/internal/canvas"
	"github.com/tercen/ggrs-plot-operator/internal/plotspec"
	"github.com/tercen/ggrs-plot-operator/internal/quant"
)

// Band sizes, in pixels. Chrome bands are fixed-size reservations
// rather than text-metric driven ones, since the fixed bitmap face
// used for labels (see drawCenteredLabel) has a constant line height;
// a proportional face would need these computed from font metrics.
const (
	TitleBandPx  = 32
	XLabelBandPx = 28
	YLabelBandPx = 28
	StripBandPx  = 22
	LegendPx     = 80
	TickPx       = 16
	GutterPx     = 2
)

// Rect is an axis-aligned pixel rectangle within the output image.
type Rect struct {
	X, Y, W, H float64
}

// Context is the per-panel drawing handle: a sub-rectangle of the
// shared pixel surface plus the axis ranges the dequantizer resolves
// against. It is constructed once, during grid setup, and never
// mutated afterward except by drawing calls issued against Canvas.
type Context struct {
	Canvas   *canvas.Context
	Rect     Rect
	XRange   quant.Range
	YRange   quant.Range
	WidthPx  int
	HeightPx int
}

// ToPixel maps a data-space point to device pixel coordinates within
// this panel's rectangle. Y increases downward in pixel space, so the
// data Y axis is flipped (data-space up is pixel-space up on screen).
func (c Context) ToPixel(x, y float64) (px, py float64) {
	xs := (x - c.XRange.Min) / c.XRange.Span()
	ys := (y - c.YRange.Min) / c.YRange.Span()
	px = c.Rect.X + xs*c.Rect.W
	py = c.Rect.Y + (1-ys)*c.Rect.H
	return
}

// AxisResolver supplies per-panel axis ranges, mirroring
// internal/stream.Generator's XAxis/YAxis operations without creating
// an import-cycle dependency on the stream package.
type AxisResolver interface {
	XAxis(col, row int) quant.Range
	YAxis(col, row int) quant.Range
}

// Grid is the realized panel layout: one Context per facet cell, plus
// the reserved chrome rectangles drawn once during setup.
type Grid struct {
	Spec    plotspec.PlotSpec
	Panels  []Context // len NCols*NRows, indexed by col*NRows+row
	Legend  Rect
	surface *canvas.Context
}

// Build allocates the pixel surface, computes the chrome bands and
// per-panel rectangles, resolves axis ranges via axes, and draws the
// static chrome (backgrounds, strips, gridlines at the axis ticks,
// legend frame). Tick marks and tick value labels are not drawn.
// It does not draw any data points: that happens per-chunk afterward.
func Build(spec plotspec.PlotSpec, axes AxisResolver) *Grid {
	surface := canvas.NewContext(spec.WidthPx, spec.HeightPx)

	left, top, right, bottom := chromeInsets(spec)

	legend := Rect{}
	if spec.HasColor && spec.Theme.LegendPosition == plotspec.LegendRight {
		legend = Rect{X: float64(spec.WidthPx - LegendPx), Y: top, W: LegendPx, H: float64(spec.HeightPx) - top - bottom}
		right += LegendPx
	} else if spec.HasColor && spec.Theme.LegendPosition == plotspec.LegendBottom {
		legend = Rect{X: left, Y: float64(spec.HeightPx) - bottom - LegendPx, W: float64(spec.WidthPx) - left - right, H: LegendPx}
		bottom += LegendPx
	}

	gridW := float64(spec.WidthPx) - left - right
	gridH := float64(spec.HeightPx) - top - bottom
	panelW := floorDiv(gridW-float64(spec.NCols-1)*GutterPx, spec.NCols)
	panelH := floorDiv(gridH-float64(spec.NRows-1)*GutterPx, spec.NRows)

	panels := make([]Context, spec.NCols*spec.NRows)
	for col := 0; col < spec.NCols; col++ {
		for row := 0; row < spec.NRows; row++ {
			rect := Rect{
				X: left + float64(col)*(panelW+GutterPx),
				Y: top + float64(row)*(panelH+GutterPx),
				W: panelW,
				H: panelH,
			}
			panels[col*spec.NRows+row] = Context{
				Canvas:   surface,
				Rect:     rect,
				XRange:   axes.XAxis(col, row),
				YRange:   axes.YAxis(col, row),
				WidthPx:  int(panelW),
				HeightPx: int(panelH),
			}
		}
	}

	g := &Grid{Spec: spec, Panels: panels, Legend: legend, surface: surface}
	g.drawChrome(left, top, right, bottom)
	return g
}

// Surface returns the shared pixel surface backing every panel.
func (g *Grid) Surface() *canvas.Context { return g.surface }

// At returns the panel context for the given facet coordinates.
func (g *Grid) At(col, row int) Context { return g.Panels[col*g.Spec.NRows+row] }

func chromeInsets(spec plotspec.PlotSpec) (left, top, right, bottom float64) {
	left = YLabelBandPx + TickPx
	bottom = XLabelBandPx + TickPx
	top = StripBandPx // one column-strip band above the top row of panels
	right = 0
	if spec.Labels.Title != "" {
		top += TitleBandPx
	}
	if spec.NRows > 1 {
		right += StripBandPx // row strip labels along the right edge
	}
	return
}

func floorDiv(total float64, n int) float64 {
	if n <= 0 {
		return total
	}
	return float64(int(total) / n)
}

// drawChrome paints the background, panel backgrounds, gridlines, legend
// frame and labels. It does not flush; the stream driver calls
// internal/raster.Surface.Flush after Build so the setup commands never
// mix with data-chunk commands.
func (g *Grid) drawChrome(left, top, right, bottom float64) {
	ctx := g.surface
	ctx.SetColor(g.Spec.Theme.Background)
	ctx.DrawRectangle(0, 0, float64(g.Spec.WidthPx), float64(g.Spec.HeightPx))
	_ = ctx.Fill()

	for _, p := range g.Panels {
		ctx.SetColor(g.Spec.Theme.Panel)
		ctx.DrawRectangle(p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H)
		_ = ctx.Fill()
		drawTicks(ctx, p, g.Spec.Theme.Grid)
	}

	if g.Legend.W > 0 || g.Legend.H > 0 {
		ctx.SetColor(g.Spec.Theme.Panel)
		ctx.DrawRectangle(g.Legend.X, g.Legend.Y, g.Legend.W, g.Legend.H)
		_ = ctx.Stroke()
	}

	g.drawLabels(left, top, right, bottom)
}

// drawLabels paints the title, shared axis labels, and per-facet strip
// labels using a fixed bitmap face (golang.org/x/image/font/basicfont):
// internal/canvas has no text shaping of its own, so label text is
// drawn directly onto the backing pixmap rather than through the
// vector path pipeline.
func (g *Grid) drawLabels(left, top, right, bottom float64) {
	fg := g.Spec.Theme.Text

	if g.Spec.Labels.Title != "" {
		drawCenteredLabel(g.surface, g.Spec.Labels.Title, fg, left, 0, float64(g.Spec.WidthPx)-left-right, TitleBandPx)
	}
	if g.Spec.Labels.XLabel != "" {
		y := float64(g.Spec.HeightPx) - XLabelBandPx
		drawCenteredLabel(g.surface, g.Spec.Labels.XLabel, fg, left, y, float64(g.Spec.WidthPx)-left-right, XLabelBandPx)
	}
	if g.Spec.Labels.YLabel != "" {
		drawCenteredLabel(g.surface, g.Spec.Labels.YLabel, fg, 0, top, YLabelBandPx, float64(g.Spec.HeightPx)-top-bottom)
	}

	stripTop := top - StripBandPx
	for col := 0; col < g.Spec.NCols; col++ {
		if col >= len(g.Spec.ColLabels) || g.Spec.ColLabels[col] == "" {
			continue
		}
		p := g.At(col, 0)
		drawCenteredLabel(g.surface, g.Spec.ColLabels[col], fg, p.Rect.X, stripTop, p.Rect.W, StripBandPx)
	}
	if g.Spec.NRows > 1 {
		last := g.At(g.Spec.NCols-1, 0)
		stripX := last.Rect.X + last.Rect.W
		for row := 0; row < g.Spec.NRows; row++ {
			if row >= len(g.Spec.RowLabels) || g.Spec.RowLabels[row] == "" {
				continue
			}
			p := g.At(0, row)
			drawCenteredLabel(g.surface, g.Spec.RowLabels[row], fg, stripX, p.Rect.Y, StripBandPx, p.Rect.H)
		}
	}
}

// drawCenteredLabel draws text centered in the band [x, x+w) x [y, y+h)
// using the fixed 7x13 bitmap face; text wider than the band is drawn
// left-aligned instead of clipped, since basicfont has no elision.
func drawCenteredLabel(ctx *canvas.Context, text string, fg canvas.RGBA, x, y, w, h float64) {
	face := basicfont.Face7x13
	advance := font.MeasureString(face, text)
	tw := float64(advance) / 64
	tx := x + (w-tw)/2
	if tx < x {
		tx = x
	}
	ascent := float64(face.Ascent) / 64
	descent := float64(face.Descent) / 64
	ty := y + h/2 + ascent/2 - descent/2

	d := &font.Drawer{
		Dst:  ctx.Pixmap(),
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(int(tx), int(ty)),
	}
	d.DrawString(text)
}

// drawTicks draws gridlines at each axis tick, synthesizing 5 evenly
// spaced ticks when the generator did not supply any (Open Question
// resolution recorded in DESIGN.md).
func drawTicks(ctx *canvas.Context, p Context, color canvas.RGBA) {
	xticks := p.XRange.Ticks
	if len(xticks) == 0 {
		xticks = synthesizeTicks(p.XRange)
	}
	yticks := p.YRange.Ticks
	if len(yticks) == 0 {
		yticks = synthesizeTicks(p.YRange)
	}

	ctx.SetColor(color)
	ctx.SetLineWidth(1)
	for _, xt := range xticks {
		px, _ := p.ToPixel(xt, p.YRange.Min)
		ctx.MoveTo(px, p.Rect.Y)
		ctx.LineTo(px, p.Rect.Y+p.Rect.H)
		_ = ctx.Stroke()
	}
	for _, yt := range yticks {
		_, py := p.ToPixel(p.XRange.Min, yt)
		ctx.MoveTo(p.Rect.X, py)
		ctx.LineTo(p.Rect.X+p.Rect.W, py)
		_ = ctx.Stroke()
	}
}

const synthesizedTickCount = 5

func synthesizeTicks(r quant.Range) []float64 {
	ticks := make([]float64, synthesizedTickCount)
	span := r.Max - r.Min
	for i := range ticks {
		t := float64(i) / float64(synthesizedTickCount-1)
		ticks[i] = r.Min + t*span
	}
	return ticks
}

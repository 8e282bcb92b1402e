// Package stream implements the stream generator contract and the
// stream driver that orchestrates a full render: resolve the plot
// spec, build the panel grid, pull chunks, route, render, flush, and
// finally encode PNG.
package stream

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/tercen/ggrs-plot-operator/internal/facet"
	"github.com/tercen/ggrs-plot-operator/internal/geom"
	"github.com/tercen/ggrs-plot-operator/internal/panel"
	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
	"github.com/tercen/ggrs-plot-operator/internal/plotspec"
	"github.com/tercen/ggrs-plot-operator/internal/quant"
	"github.com/tercen/ggrs-plot-operator/internal/raster"
)

// DefaultChunkSize is used when neither the generator nor the caller
// overrides the pull size.
const DefaultChunkSize = 15000

// ChunkStream is a finite, single-pass, lazily-produced sequence of
// DataChunks returned by one StreamData call. Next returns ok=false
// with a nil error to signal the stream ended normally; any non-nil
// error is fatal to the render.
type ChunkStream interface {
	Next(ctx context.Context) (chunk facet.Chunk, ok bool, err error)
}

// Generator is the stream generator contract: the sole external
// boundary the render pipeline pulls data and metadata through. The
// renderer never calls two operations on the same Generator
// concurrently.
type Generator interface {
	NColFacets() int
	NRowFacets() int
	NTotalDataRows() uint64
	ColFacetLabels() []string
	RowFacetLabels() []string
	XAxis(col, row int) quant.Range
	YAxis(col, row int) quant.Range
	StreamData(ctx context.Context, rowOffset, rowLimit uint64) (ChunkStream, error)
	// PreferredChunkSize returns the generator's hint and whether it
	// supplied one at all.
	PreferredChunkSize() (size int, ok bool)
}

// resolvedAxes is the panel.AxisResolver the driver hands to the grid
// builder: every range is pulled from the generator exactly once, up
// front, and validated before any drawing begins.
type resolvedAxes struct {
	nRows int
	x, y  []quant.Range
}

func (a resolvedAxes) XAxis(col, row int) quant.Range { return a.x[col*a.nRows+row] }
func (a resolvedAxes) YAxis(col, row int) quant.Range { return a.y[col*a.nRows+row] }

// resolveAxes collects and validates the per-panel axis ranges. A range
// whose bounds are inverted or non-finite is a metadata error, not
// something to clamp around: the render fails before the pixel surface
// is touched.
func resolveAxes(gen Generator, nCols, nRows int) (resolvedAxes, error) {
	axes := resolvedAxes{
		nRows: nRows,
		x:     make([]quant.Range, nCols*nRows),
		y:     make([]quant.Range, nCols*nRows),
	}
	for col := 0; col < nCols; col++ {
		for row := 0; row < nRows; row++ {
			xr, yr := gen.XAxis(col, row), gen.YAxis(col, row)
			if err := checkRange("x", col, row, xr); err != nil {
				return resolvedAxes{}, err
			}
			if err := checkRange("y", col, row, yr); err != nil {
				return resolvedAxes{}, err
			}
			idx := col*nRows + row
			axes.x[idx], axes.y[idx] = xr, yr
		}
	}
	return axes, nil
}

func checkRange(axis string, col, row int, r quant.Range) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return ploterrors.New(ploterrors.KindAxisOutOfRange,
			fmt.Sprintf("%s axis for panel (%d,%d) has non-finite bounds [%v, %v]", axis, col, row, r.Min, r.Max))
	}
	if r.Max < r.Min {
		return ploterrors.New(ploterrors.KindAxisOutOfRange,
			fmt.Sprintf("%s axis for panel (%d,%d) is not monotone: [%v, %v]", axis, col, row, r.Min, r.Max))
	}
	return nil
}

// Config carries the render parameters that, in the full system, come
// from task metadata and the plot-configuration collaborator: geom
// choice, labels, theme and output pixel size. Everything here is
// resolved once before the Driver touches the Generator.
type Config struct {
	Geom      plotspec.Geom
	HasColor  bool
	Labels    plotspec.Labels
	Theme     plotspec.Theme
	WidthPx   int
	HeightPx  int
	ChunkSize int // 0 means defer to the generator's preference, then DefaultChunkSize.
}

// ResolveSpec builds the immutable PlotSpec from generator metadata
// and caller-supplied configuration, before any data is pulled.
func ResolveSpec(gen Generator, cfg Config) plotspec.PlotSpec {
	return plotspec.PlotSpec{
		NCols:     gen.NColFacets(),
		NRows:     gen.NRowFacets(),
		ColLabels: gen.ColFacetLabels(),
		RowLabels: gen.RowFacetLabels(),
		Geom:      cfg.Geom,
		HasColor:  cfg.HasColor,
		Labels:    cfg.Labels,
		Theme:     cfg.Theme,
		WidthPx:   cfg.WidthPx,
		HeightPx:  cfg.HeightPx,
	}
}

func resolveChunkSize(gen Generator, cfg Config) int {
	if cfg.ChunkSize > 0 {
		return cfg.ChunkSize
	}
	if size, ok := gen.PreferredChunkSize(); ok && size > 0 {
		return size
	}
	return DefaultChunkSize
}

func newGeomRenderer(g plotspec.Geom) geom.Renderer {
	switch g.Kind {
	case plotspec.GeomTile:
		return geom.NewTile()
	default:
		sz := g.SizeMM
		if sz <= 0 {
			sz = plotspec.DefaultPointSizeMM
		}
		return geom.NewPoint(sz)
	}
}

// Driver orchestrates one full render: resolve spec, build the panel
// grid, pull+route+render chunks with a flush after each, then encode
// the finished surface as PNG.
type Driver struct{}

// NewDriver builds a Driver. Logging defaults to silent; see SetLogger.
func NewDriver() *Driver { return &Driver{} }

// Render runs the full pipeline against gen and streams the resulting
// PNG to out. It aborts without writing any output on the first error:
// cancellation or failure never produces a partial PNG.
func (d *Driver) Render(ctx context.Context, gen Generator, cfg Config, out io.Writer) error {
	spec := ResolveSpec(gen, cfg)
	Logger().Info("render starting", "n_cols", spec.NCols, "n_rows", spec.NRows, "geom", spec.Geom.Kind.String())

	axes, err := resolveAxes(gen, spec.NCols, spec.NRows)
	if err != nil {
		return err
	}
	grid := panel.Build(spec, axes)
	surface := raster.Wrap(grid.Surface())
	surface.Flush()

	renderer := newGeomRenderer(spec.Geom)
	router := facet.NewRouter(spec.NCols, spec.NRows)
	lookup := func(panelIdx int) panel.Context {
		col, row := panelIdx/spec.NRows, panelIdx%spec.NRows
		return grid.At(col, row)
	}

	chunkSize := uint64(resolveChunkSize(gen, cfg))
	total := gen.NTotalDataRows()

	var rowsServed uint64
	for offset := uint64(0); offset < total; offset += chunkSize {
		got, err := d.pullAndRender(ctx, gen, router, renderer, lookup, offset, chunkSize)
		if err != nil {
			return err
		}
		surface.Flush()
		Logger().Debug("chunk flushed", "offset", offset, "rows", got)
		if got == 0 {
			return ploterrors.New(ploterrors.KindTruncated, "stream ended before declared row range was exhausted")
		}
		rowsServed += uint64(got)
	}
	// Belt-and-suspenders: even if every individual pull returned a
	// non-empty chunk, the generator's declared total is only honored if
	// the rows actually served cover it.
	if rowsServed < total {
		return ploterrors.New(ploterrors.KindTruncated, "stream ended before declared row range was exhausted")
	}

	if err := renderer.Finish(lookup); err != nil {
		return err
	}
	if grid.Legend.W > 0 || grid.Legend.H > 0 {
		swatches := geom.BuildLegend(renderer.Colors())
		geom.DrawLegend(grid.Surface(), grid.Legend, swatches)
	}
	surface.Flush()

	if err := surface.EncodePNG(out); err != nil {
		return err
	}
	Logger().Info("render complete")
	return nil
}

func (d *Driver) pullAndRender(
	ctx context.Context,
	gen Generator,
	router facet.Router,
	renderer geom.Renderer,
	lookup func(int) panel.Context,
	offset, limit uint64,
) (rowsSeen int, err error) {
	cs, err := gen.StreamData(ctx, offset, limit)
	if err != nil {
		// A generator reporting its own Kind (e.g. Truncated) takes
		// precedence over the default Transport classification.
		if perr, ok := ploterrors.As(err); ok {
			return 0, perr
		}
		return 0, ploterrors.Wrap(ploterrors.KindTransport, "stream_data", err)
	}

	for {
		chunk, ok, err := cs.Next(ctx)
		if err != nil {
			if perr, ok := ploterrors.As(err); ok {
				return rowsSeen, perr
			}
			return rowsSeen, ploterrors.Wrap(ploterrors.KindTransport, "chunk stream", err)
		}
		if !ok {
			return rowsSeen, nil
		}
		rowsSeen += len(chunk.Rows)

		buckets, _ := router.Route(chunk)
		for idx, bucket := range buckets {
			if len(bucket) == 0 {
				continue
			}
			if err := renderer.RenderChunk(idx, lookup(idx), bucket); err != nil {
				return rowsSeen, err
			}
		}
	}
}

// Package memgen is an in-memory implementation of stream.Generator,
// used by tests and by the CLI's demo mode.
package memgen

import (
	"context"

	"github.com/tercen/ggrs-plot-operator/internal/facet"
	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
	"github.com/tercen/ggrs-plot-operator/internal/quant"
	"github.com/tercen/ggrs-plot-operator/internal/stream"
)

// Compile-time checks that Generator and MalformedGenerator satisfy
// stream.Generator.
var (
	_ stream.Generator = (*Generator)(nil)
	_ stream.Generator = (*MalformedGenerator)(nil)
)

// Axis holds the per-(col,row) axis ranges memgen reports. A Generator
// backed by a global (non-per-panel) axis range simply repeats the
// same Axis value for every panel.
type Axis struct {
	X, Y quant.Range
}

// Generator is a fixed, pre-loaded in-memory stream.Generator. Rows are
// split into chunks of ChunkSize (default stream.DefaultChunkSize) as
// StreamData is called; Truncate, if set, makes the generator stop
// yielding rows early to exercise the Truncated failure path even
// though NTotalDataRows reports the full, honest count.
type Generator struct {
	NCols, NRows int
	ColLabels    []string
	RowLabels    []string
	Axes         map[[2]int]Axis
	Rows         []facet.Row
	ChunkSize    int

	// Truncate, when > 0, caps the number of rows ever returned across
	// all StreamData calls, regardless of NTotalDataRows — used to
	// simulate a source that ends early.
	Truncate int

	served int
}

// NColFacets implements stream.Generator.
func (g *Generator) NColFacets() int { return g.NCols }

// NRowFacets implements stream.Generator.
func (g *Generator) NRowFacets() int { return g.NRows }

// NTotalDataRows implements stream.Generator.
func (g *Generator) NTotalDataRows() uint64 { return uint64(len(g.Rows)) }

// ColFacetLabels implements stream.Generator.
func (g *Generator) ColFacetLabels() []string { return g.ColLabels }

// RowFacetLabels implements stream.Generator.
func (g *Generator) RowFacetLabels() []string { return g.RowLabels }

// XAxis implements stream.Generator.
func (g *Generator) XAxis(col, row int) quant.Range { return g.Axes[[2]int{col, row}].X }

// YAxis implements stream.Generator.
func (g *Generator) YAxis(col, row int) quant.Range { return g.Axes[[2]int{col, row}].Y }

// PreferredChunkSize implements stream.Generator.
func (g *Generator) PreferredChunkSize() (int, bool) {
	if g.ChunkSize > 0 {
		return g.ChunkSize, true
	}
	return 0, false
}

// StreamData implements stream.Generator: it slices the preloaded Rows
// into [rowOffset, rowOffset+rowLimit), honoring Truncate.
//
// A generator must fail with a Truncated error rather than silently
// handing back a short chunk whenever the source ends before rowLimit
// is satisfied but NTotalDataRows() promised more rows exist.
func (g *Generator) StreamData(_ context.Context, rowOffset, rowLimit uint64) (stream.ChunkStream, error) {
	total := uint64(len(g.Rows))

	// wantEnd is how far this call should be able to read given the
	// declared row count, before Truncate is applied.
	wantEnd := rowOffset + rowLimit
	if wantEnd > total {
		wantEnd = total
	}

	start := rowOffset
	if start > total {
		start = total
	}

	var rows []facet.Row
	if start < wantEnd {
		rows = g.Rows[start:wantEnd]
	}

	if g.Truncate > 0 {
		remaining := g.Truncate - g.served
		if remaining <= 0 {
			rows = nil
		} else if len(rows) > remaining {
			rows = rows[:remaining]
		}
	}
	servedEnd := start + uint64(len(rows))
	g.served += len(rows)

	// The source ran dry before satisfying this call's honest window: the
	// declared total promised rows through wantEnd, but only servedEnd
	// were actually available.
	if servedEnd < wantEnd {
		return nil, ploterrors.New(ploterrors.KindTruncated,
			"memgen: source ended early: served rows do not cover the requested range")
	}

	return &singleChunkStream{chunk: facet.Chunk{Rows: rows}}, nil
}

// singleChunkStream yields exactly one chunk (possibly empty), then
// ends. Real transports may yield many chunks per StreamData call;
// memgen's preloaded rows fit comfortably in one.
type singleChunkStream struct {
	chunk  facet.Chunk
	served bool
}

func (s *singleChunkStream) Next(context.Context) (facet.Chunk, bool, error) {
	if s.served {
		return facet.Chunk{}, false, nil
	}
	s.served = true
	if len(s.chunk.Rows) == 0 {
		return facet.Chunk{}, false, nil
	}
	return s.chunk, true, nil
}

// MalformedGenerator wraps a Generator so StreamData always fails with
// a Malformed error, for exercising the transport-failure path.
type MalformedGenerator struct {
	*Generator
}

// StreamData implements stream.Generator, always failing.
func (g *MalformedGenerator) StreamData(context.Context, uint64, uint64) (stream.ChunkStream, error) {
	return nil, ploterrors.New(ploterrors.KindMalformed, "memgen: simulated malformed source")
}

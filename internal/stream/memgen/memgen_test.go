package memgen_test

import (
	"context"
	"testing"

	"github.com/tercen/ggrs-plot-operator/internal/facet"
	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
	"github.com/tercen/ggrs-plot-operator/internal/stream/memgen"
)

func makeRows(n int) []facet.Row {
	rows := make([]facet.Row, n)
	for i := range rows {
		rows[i] = facet.Row{Col: 0, RowIdx: 0, XS: uint16(i), YS: uint16(i)}
	}
	return rows
}

// TestGeneratorStreamDataFullPull verifies a call that fits entirely within
// the preloaded rows succeeds and returns exactly the requested range.
func TestGeneratorStreamDataFullPull(t *testing.T) {
	gen := &memgen.Generator{Rows: makeRows(100)}

	cs, err := gen.StreamData(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("StreamData returned unexpected error: %v", err)
	}

	chunk, ok, err := cs.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("Next() = (%v, %v, %v), want a chunk", chunk, ok, err)
	}
	if len(chunk.Rows) != 100 {
		t.Errorf("len(chunk.Rows) = %d, want 100", len(chunk.Rows))
	}
}

// TestGeneratorStreamDataTruncatedSingleCall reproduces the case where a
// single StreamData call spans the entire shortfall: 10000 rows declared,
// only 9000 actually available, and a chunk size large enough to request
// all 10000 in one call. The boundary (9000) does not fall on any
// chunk-size multiple, so this only passes if StreamData itself detects
// the shortfall rather than relying on the caller noticing an empty pull.
func TestGeneratorStreamDataTruncatedSingleCall(t *testing.T) {
	gen := &memgen.Generator{Rows: makeRows(10000), Truncate: 9000}

	_, err := gen.StreamData(context.Background(), 0, 15000)
	if err == nil {
		t.Fatal("expected a Truncated error, got nil")
	}
	perr, ok := ploterrors.As(err)
	if !ok || perr.Kind != ploterrors.KindTruncated {
		t.Fatalf("err = %v, want KindTruncated", err)
	}
}

// TestGeneratorStreamDataTruncatedAcrossCalls checks the multi-call case:
// the first call is satisfied entirely within the truncation cap, and
// only the second call (which crosses the cap) fails.
func TestGeneratorStreamDataTruncatedAcrossCalls(t *testing.T) {
	gen := &memgen.Generator{Rows: makeRows(10000), Truncate: 9000}

	cs, err := gen.StreamData(context.Background(), 0, 5000)
	if err != nil {
		t.Fatalf("first call: unexpected error: %v", err)
	}
	chunk, ok, err := cs.Next(context.Background())
	if err != nil || !ok || len(chunk.Rows) != 5000 {
		t.Fatalf("first call: Next() = (%d rows, %v, %v), want 5000 rows", len(chunk.Rows), ok, err)
	}

	_, err = gen.StreamData(context.Background(), 5000, 5000)
	if err == nil {
		t.Fatal("second call: expected a Truncated error, got nil")
	}
	perr, ok := ploterrors.As(err)
	if !ok || perr.Kind != ploterrors.KindTruncated {
		t.Fatalf("second call: err = %v, want KindTruncated", err)
	}
}

// TestGeneratorStreamDataNaturalEndNotTruncated checks that reaching the
// true end of the declared rows (no Truncate override) is not itself
// reported as a truncation — an empty tail pull past total is a normal
// stream end, not a source failure.
func TestGeneratorStreamDataNaturalEndNotTruncated(t *testing.T) {
	gen := &memgen.Generator{Rows: makeRows(100)}

	cs, err := gen.StreamData(context.Background(), 100, 50)
	if err != nil {
		t.Fatalf("unexpected error at natural end: %v", err)
	}
	_, ok, err := cs.Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no chunk past the natural end of data")
	}
}

package geom_test

import (
	"testing"

	"github.com/tercen/ggrs-plot-operator/internal/canvas"
	"github.com/tercen/ggrs-plot-operator/internal/facet"
	"github.com/tercen/ggrs-plot-operator/internal/geom"
	"github.com/tercen/ggrs-plot-operator/internal/panel"
	"github.com/tercen/ggrs-plot-operator/internal/plotspec"
	"github.com/tercen/ggrs-plot-operator/internal/quant"
)

func strp(s string) *string { return &s }

func testGrid(t *testing.T, nCols, nRows int, hasColor bool) *panel.Grid {
	t.Helper()
	spec := plotspec.PlotSpec{
		NCols: nCols, NRows: nRows,
		ColLabels: make([]string, nCols), RowLabels: make([]string, nRows),
		Geom:     plotspec.Geom{Kind: plotspec.GeomPoint},
		HasColor: hasColor,
		Theme:    plotspec.DefaultTheme(),
		WidthPx:  200, HeightPx: 200,
	}
	return panel.Build(spec, identityAxes{})
}

type identityAxes struct{}

func (identityAxes) XAxis(int, int) quant.Range { return quant.Range{Min: 0, Max: 1} }
func (identityAxes) YAxis(int, int) quant.Range { return quant.Range{Min: 0, Max: 1} }

func TestPoint_RenderChunk_TracksColors(t *testing.T) {
	grid := testGrid(t, 1, 1, true)
	p := geom.NewPoint(1.5)
	ctx := grid.At(0, 0)

	bucket := facet.Bucket{
		{XS: 10000, YS: 10000, Color: strp("#FF0000")},
		{XS: 20000, YS: 20000, Color: strp("#00FF00")},
		{XS: 30000, YS: 30000, Color: nil},
	}
	if err := p.RenderChunk(0, ctx, bucket); err != nil {
		t.Fatalf("RenderChunk: %v", err)
	}
	colors := p.Colors()
	if len(colors) != 2 {
		t.Fatalf("colors = %v, want 2 distinct (nil color should not be tracked)", colors)
	}
	if _, ok := colors["#FF0000"]; !ok {
		t.Fatal("missing #FF0000")
	}
	if _, ok := colors["#00FF00"]; !ok {
		t.Fatal("missing #00FF00")
	}
}

func TestPoint_RenderChunk_InvalidColorErrors(t *testing.T) {
	grid := testGrid(t, 1, 1, true)
	p := geom.NewPoint(1.5)
	ctx := grid.At(0, 0)

	bucket := facet.Bucket{{XS: 100, YS: 100, Color: strp("not-a-color")}}
	if err := p.RenderChunk(0, ctx, bucket); err == nil {
		t.Fatal("expected an error for an invalid color string")
	}
}

func TestTile_RenderChunk_MissingFillErrors(t *testing.T) {
	grid := testGrid(t, 1, 1, true)
	tl := geom.NewTile()
	ctx := grid.At(0, 0)

	bucket := facet.Bucket{{XS: 100, YS: 100, Color: nil}}
	if err := tl.RenderChunk(0, ctx, bucket); err == nil {
		t.Fatal("expected a missing-fill error")
	}
}

func TestTile_Finish_DrawsBufferedRowsOncePerPanel(t *testing.T) {
	grid := testGrid(t, 1, 1, true)
	tl := geom.NewTile()
	ctx := grid.At(0, 0)

	bucket := facet.Bucket{
		{XS: 10000, YS: 10000, Color: strp("#112233")},
		{XS: 20000, YS: 20000, Color: strp("#112233")},
	}
	if err := tl.RenderChunk(0, ctx, bucket); err != nil {
		t.Fatalf("RenderChunk: %v", err)
	}

	lookup := func(int) panel.Context { return ctx }
	if err := tl.Finish(lookup); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, ok := tl.Colors()["#112233"]; !ok {
		t.Fatal("expected #112233 to be tracked after RenderChunk")
	}
}

func TestBuildLegend_SortsAndSkipsInvalidColors(t *testing.T) {
	seen := map[string]struct{}{
		"#00FF00": {},
		"#FF0000": {},
		"garbage": {},
	}
	swatches := geom.BuildLegend(seen)
	if len(swatches) != 2 {
		t.Fatalf("swatches = %d, want 2 (invalid color skipped)", len(swatches))
	}
	if swatches[0].Label != "#00FF00" || swatches[1].Label != "#FF0000" {
		t.Fatalf("swatches not sorted: %+v", swatches)
	}
	if swatches[0].Color != (canvas.RGBA{R: 0, G: 1, B: 0, A: 1}) {
		t.Fatalf("swatch[0].Color = %+v, want pure green", swatches[0].Color)
	}
}

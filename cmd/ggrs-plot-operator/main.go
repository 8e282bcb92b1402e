// Command ggrs-plot-operator renders one streaming scatter/heatmap plot
// and writes the platform's tagged result envelope to a file. The RPC
// transport and authentication remain external collaborators; this
// launcher only wires the environment inputs to the core render
// pipeline and a file-output uploader.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/tercen/ggrs-plot-operator/internal/config"
	"github.com/tercen/ggrs-plot-operator/internal/facet"
	"github.com/tercen/ggrs-plot-operator/internal/plotspec"
	"github.com/tercen/ggrs-plot-operator/internal/quant"
	"github.com/tercen/ggrs-plot-operator/internal/stream"
	"github.com/tercen/ggrs-plot-operator/internal/stream/memgen"
	"github.com/tercen/ggrs-plot-operator/internal/task"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to an operator.toml (optional)")
		out        = flag.String("out", "plot.png.result", "path to write the serialized result envelope")
		width      = flag.Int("width", 900, "output image width in pixels")
		height     = flag.Int("height", 600, "output image height in pixels")
		nCols      = flag.Int("demo-cols", 2, "demo mode: number of column facets")
		nRows      = flag.Int("demo-rows", 2, "demo mode: number of row facets")
		nPoints    = flag.Int("demo-points", 2000, "demo mode: total points to generate")
		tile       = flag.Bool("demo-tile", false, "demo mode: render a tile/heatmap geom instead of points")
		verbose    = flag.Bool("v", false, "enable verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		stream.SetLogger(logger)
	}

	fileCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ggrs-plot-operator: reading config: %v\n", err)
		os.Exit(1)
	}
	env := config.LoadEnv(fileCfg)

	gen := demoGenerator(*nCols, *nRows, *nPoints)
	geomSpec := plotspec.Geom{Kind: plotspec.GeomPoint, SizeMM: plotspec.DefaultPointSizeMM}
	if *tile {
		geomSpec = plotspec.Geom{Kind: plotspec.GeomTile}
	}

	cfg := stream.Config{
		Geom:      geomSpec,
		HasColor:  true,
		Labels:    plotspec.Labels{Title: "demo render"},
		Theme:     plotspec.DefaultTheme(),
		WidthPx:   *width,
		HeightPx:  *height,
		ChunkSize: env.ChunkSize,
	}

	state := &task.RecordingState{}
	runErr := task.Run(
		context.Background(),
		stream.NewDriver(),
		gen,
		cfg,
		task.FileUpload{Path: *out},
		task.UploadMetadata{ProjectID: env.TaskID, Filename: "plot.png", ContentType: "image/png"},
		state,
	)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "ggrs-plot-operator: render failed: %v\n", runErr)
		os.Exit(1)
	}

	fmt.Printf("wrote result envelope to %s\n", *out)
}

// demoGenerator builds a synthetic in-memory generator so the CLI is
// runnable without a live platform connection.
func demoGenerator(nCols, nRows, nPoints int) *memgen.Generator {
	axes := make(map[[2]int]memgen.Axis, nCols*nRows)
	colLabels := make([]string, nCols)
	rowLabels := make([]string, nRows)
	for c := 0; c < nCols; c++ {
		colLabels[c] = fmt.Sprintf("col %d", c)
		for r := 0; r < nRows; r++ {
			rowLabels[r] = fmt.Sprintf("row %d", r)
			axes[[2]int{c, r}] = memgen.Axis{
				X: quant.Range{Min: 0, Max: 100},
				Y: quant.Range{Min: 0, Max: 100},
			}
		}
	}

	palette := []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728"}
	rng := rand.New(rand.NewSource(1))
	rows := make([]facet.Row, 0, nPoints)
	for i := 0; i < nPoints; i++ {
		col := uint32(rng.Intn(nCols))
		row := uint32(rng.Intn(nRows))
		color := palette[rng.Intn(len(palette))]
		rows = append(rows, facet.Row{
			Col: col, RowIdx: row,
			XS: uint16(rng.Intn(65536)), YS: uint16(rng.Intn(65536)),
			Color: &color,
		})
	}

	return &memgen.Generator{
		NCols: nCols, NRows: nRows,
		ColLabels: colLabels, RowLabels: rowLabels,
		Axes: axes,
		Rows: rows,
	}
}

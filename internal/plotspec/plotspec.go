// Package plotspec holds the immutable description of one render: grid
// dimensions, facet labels, geom kind, theme knobs and output size. A
// PlotSpec is built once by the stream driver before any data is pulled
// and never mutated afterward.
package plotspec

import "github.com/tercen/ggrs-plot-operator/internal/canvas"

// GeomKind discriminates the two geoms this worker can render. The set
// is closed and stable, so a tagged struct with a Kind field stands in
// for what another language would model as a sum type — no interface
// indirection is needed to select behavior, only to invoke it (see
// internal/geom.Renderer).
type GeomKind int

const (
	// GeomPoint renders a filled circle per row.
	GeomPoint GeomKind = iota
	// GeomTile renders a filled rectangle per unique (x, y) position.
	GeomTile
)

func (k GeomKind) String() string {
	switch k {
	case GeomPoint:
		return "point"
	case GeomTile:
		return "tile"
	default:
		return "unknown"
	}
}

// Geom bundles the geom kind with its geom-specific parameters. Only
// SizeMM is meaningful for GeomPoint; GeomTile derives its size from
// observed data (internal/geom.Tile).
type Geom struct {
	Kind   GeomKind
	SizeMM float64 // Point marker radius in millimeters. Default 1.5.
}

// DefaultPointSizeMM is used when a Point geom spec omits SizeMM.
const DefaultPointSizeMM = 1.5

// LegendPosition names where the grid builder reserves legend space.
type LegendPosition string

const (
	LegendNone   LegendPosition = ""
	LegendRight  LegendPosition = "right"
	LegendBottom LegendPosition = "bottom"
)

// Theme carries the cosmetic knobs of a render; internal/panel is the
// sole consumer.
type Theme struct {
	Background     canvas.RGBA
	Panel          canvas.RGBA
	Grid           canvas.RGBA
	Text           canvas.RGBA
	LegendPosition LegendPosition
	LegendJustify  string // e.g. "center", "start", "end"; opaque to this package.
}

// DefaultTheme matches the muted gray-on-white look common to faceted
// scientific plots: white background, light gray panel, white
// gridlines.
func DefaultTheme() Theme {
	return Theme{
		Background:     canvas.White,
		Panel:          canvas.RGB(0.92, 0.92, 0.92),
		Grid:           canvas.White,
		Text:           canvas.RGB(0.15, 0.15, 0.15),
		LegendPosition: LegendRight,
		LegendJustify:  "center",
	}
}

// Labels holds the optional chrome text: figure title and shared axis
// labels. An empty string draws no text; an empty Title also omits the
// title band, while the axis-label bands are reserved either way.
type Labels struct {
	Title   string
	XLabel  string
	YLabel  string
}

// PlotSpec is the immutable render descriptor resolved once by the
// driver before any row is pulled.
type PlotSpec struct {
	NCols, NRows int
	RowLabels    []string
	ColLabels    []string
	Geom         Geom
	HasColor     bool
	Labels       Labels
	Theme        Theme
	WidthPx      int
	HeightPx     int
}

// NPanels returns the total number of facet cells.
func (s PlotSpec) NPanels() int { return s.NCols * s.NRows }

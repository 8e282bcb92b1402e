package raster

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Edge represents a line segment for scanline rasterization, normalized so
// y0 <= y1. Winding direction is recorded separately since the swap that
// normalizes y order would otherwise lose it.
type Edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int // +1 if the original segment ran downward, -1 if it was flipped
}

// NewEdge creates a new edge from two points.
func NewEdge(p0, p1 Point) Edge {
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}

	return Edge{x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y, dir: dir}
}

// XAtY calculates the x coordinate at the given y coordinate.
func (e *Edge) XAtY(y float64) float64 {
	if e.y1 == e.y0 {
		return e.x0
	}
	t := (y - e.y0) / (e.y1 - e.y0)
	return e.x0 + (e.x1-e.x0)*t
}

// ActiveEdgeTable holds the edges crossing the current scanline, built fresh
// for every supersampled row rather than incrementally maintained: the AA
// rasterizer re-derives x-at-y for each row via AddAtY, so there is no
// per-row state to carry forward between scanlines.
type ActiveEdgeTable struct {
	edges []ActiveEdge
}

// ActiveEdge is an edge crossing the current scanline, with its x position
// already resolved for that scanline's y.
type ActiveEdge struct {
	x   float64
	dir int
}

// NewActiveEdgeTable creates a new active edge table.
func NewActiveEdgeTable() *ActiveEdgeTable {
	return &ActiveEdgeTable{
		edges: make([]ActiveEdge, 0, 32),
	}
}

// AddAtY adds an edge to the active edge table with x computed for the given y.
func (aet *ActiveEdgeTable) AddAtY(edge Edge, y float64) {
	aet.edges = append(aet.edges, ActiveEdge{x: edge.XAtY(y), dir: edge.dir})
}

// Sort sorts edges by x coordinate (insertion sort for small lists).
func (aet *ActiveEdgeTable) Sort() {
	for i := 1; i < len(aet.edges); i++ {
		key := aet.edges[i]
		j := i - 1
		for j >= 0 && aet.edges[j].x > key.x {
			aet.edges[j+1] = aet.edges[j]
			j--
		}
		aet.edges[j+1] = key
	}
}

// Edges returns the active edges.
func (aet *ActiveEdgeTable) Edges() []ActiveEdge {
	return aet.edges
}

// Clear clears all edges.
func (aet *ActiveEdgeTable) Clear() {
	aet.edges = aet.edges[:0]
}

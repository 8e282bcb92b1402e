// Package facet implements the facet routing stage of the pipeline
// (dequantization is internal/quant): it partitions a streamed chunk of quantized
// rows into per-panel buckets, dropping rows that address a panel
// outside the declared grid.
package facet

// Row is one quantized data point as it arrives in a DataChunk: panel
// coordinates (Col, Row), quantized axis coordinates, and an optional
// color. Color is nil when the source row carried no color aesthetic.
type Row struct {
	Col, RowIdx uint32
	XS, YS      uint16
	Color       *string
}

// Chunk is an ordered, single-pass batch of rows pulled from the stream
// generator. Rows from arbitrary panels may be interleaved; the chunk
// is discarded by the driver once it has been routed and rendered.
type Chunk struct {
	Rows []Row
}

// Tuple is one routed row inside a panel Bucket: the quantized
// coordinates and color, with panel indices already resolved away.
type Tuple struct {
	XS, YS uint16
	Color  *string
}

// Bucket is the set of tuples routed to one panel from the current
// chunk. It does not outlive the chunk iteration that produced it.
type Bucket []Tuple

// Router partitions chunks into per-panel buckets for a fixed grid
// shape. It is stateless between chunks: Route never retains rows from
// a previous call.
type Router struct {
	nCols, nRows int
}

// NewRouter builds a router for a grid of nCols x nRows panels.
func NewRouter(nCols, nRows int) Router {
	return Router{nCols: nCols, nRows: nRows}
}

// Stats reports routing counts for a single Route call, satisfying the
// "routing preserves counts" property: Routed + Discarded == len(chunk.Rows).
type Stats struct {
	Routed, Discarded int
}

// Route buckets chunk.Rows into nCols*nRows buckets indexed by
// col*nRows+row (panel index), preserving arrival order within each
// bucket (stable routing). Rows whose Col or RowIdx is out of range
// for the declared grid are dropped silently: they address a facet
// that was filtered out upstream. The returned slice always has
// length nCols*nRows; buckets for panels with no matching rows are nil.
func (r Router) Route(chunk Chunk) ([]Bucket, Stats) {
	buckets := make([]Bucket, r.nCols*r.nRows)
	var stats Stats
	for _, row := range chunk.Rows {
		if row.Col >= uint32(r.nCols) || row.RowIdx >= uint32(r.nRows) {
			stats.Discarded++
			continue
		}
		idx := int(row.Col)*r.nRows + int(row.RowIdx)
		buckets[idx] = append(buckets[idx], Tuple{XS: row.XS, YS: row.YS, Color: row.Color})
		stats.Routed++
	}
	return buckets, stats
}

// PanelIndex converts grid coordinates to the flat bucket index used by
// Route's return slice.
func PanelIndex(col, row, nRows int) int { return col*nRows + row }

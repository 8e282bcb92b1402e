// Package quant converts 16-bit quantized axis coordinates back into
// data-space floating point values, and reports the axis ranges those
// coordinates are resolved against.
package quant

// Range is a single axis's data-space extent plus its tick positions,
// as reported by the stream generator for one panel. The zero value is
// not valid data (Min == Max == 0 is a legitimate degenerate range, but
// an uninitialized Range should never reach Dequantize undetected —
// callers resolve it from internal/stream.Generator.XAxis/YAxis first).
type Range struct {
	Min, Max float64
	Ticks    []float64
}

// Span returns max-min, falling back to 1 when the range is degenerate
// (min == max) so callers that divide by span never divide by zero.
// Dequantize itself never divides by Span; this helper exists for
// internal/panel's ToPixel and for internal/geom, which maps pixel tile
// sizes back into data units.
func (r Range) Span() float64 {
	if r.Max == r.Min {
		return 1
	}
	return r.Max - r.Min
}

const lattice = 65535.0

// Dequantize maps a u16 quantized coordinate into data space for one
// axis. The mapping is exact at the ends: q=0 maps to r.Min, q=65535 to r.Max,
// and the mapping is monotonically non-decreasing in q for any
// r.Min <= r.Max. When r.Min == r.Max the formula collapses to r.Min
// for every q, which is the documented degenerate-axis behavior.
func Dequantize(q uint16, r Range) float64 {
	return r.Min + (float64(q)/lattice)*(r.Max-r.Min)
}

// Point is the dequantized result of one (xs, ys) quantized pair.
type Point struct {
	X, Y float64
}

// DequantizePoint dequantizes both coordinates of a row against their
// panel's axis ranges.
func DequantizePoint(xs, ys uint16, xr, yr Range) Point {
	return Point{X: Dequantize(xs, xr), Y: Dequantize(ys, yr)}
}

// Package path flattens the curves this worker draws (the cubic Bezier
// arcs of scatter markers) into the polylines raster.FillAA consumes.
// The element set is exactly what the plot pipeline emits: straight
// segments for panel chrome and tiles, cubics for circle markers. There
// are no quadratics anywhere in the pipeline, so none are modeled here.
package path

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Tolerance bounds how far a flattened segment may stray from the true
// curve, in device pixels.
const Tolerance = 0.1

// PathElement is one step of a path: a move, a line, a cubic, or a close.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath at Point.
type MoveTo struct{ Point Point }

func (MoveTo) isPathElement() {}

// LineTo draws a straight line to Point.
type LineTo struct{ Point Point }

func (LineTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve through Control1 and Control2 to Point.
type CubicTo struct{ Control1, Control2, Point Point }

func (CubicTo) isPathElement() {}

// Close draws a line back to the start of the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Flatten walks a sequence of path elements and returns the polyline
// that approximates it to within Tolerance. Close returns to the start
// of the subpath opened by the most recent MoveTo, not to the first
// point of the whole polyline.
func Flatten(elements []PathElement) []Point {
	var points []Point
	var current, start Point

	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			current = e.Point
			start = e.Point
			points = append(points, current)

		case LineTo:
			current = e.Point
			points = append(points, current)

		case CubicTo:
			points = appendCubic(points, current, e.Control1, e.Control2, e.Point, Tolerance)
			current = e.Point

		case Close:
			if current != start {
				points = append(points, start)
			}
			current = start
		}
	}

	return points
}

// appendCubic evaluates the cubic at a uniform parameter step and
// appends the resulting segments. The step comes from Wang's formula:
// chord error of uniform subdivision is bounded by (3/4)*m*h^2, where m
// is the larger second-difference magnitude of the control polygon, so
// n = ceil(sqrt(3m/(4*tolerance))) segments keep it under tolerance.
// Marker outlines span a handful of pixels, so n stays small and the
// adaptive recursion a general-purpose library would use buys nothing.
func appendCubic(points []Point, p0, p1, p2, p3 Point, tolerance float64) []Point {
	m := math.Max(
		math.Hypot(p0.X-2*p1.X+p2.X, p0.Y-2*p1.Y+p2.Y),
		math.Hypot(p1.X-2*p2.X+p3.X, p1.Y-2*p2.Y+p3.Y),
	)

	n := 1
	if m > 0 {
		n = int(math.Ceil(math.Sqrt(3 * m / (4 * tolerance))))
		if n < 1 {
			n = 1
		}
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		points = append(points, evalCubic(p0, p1, p2, p3, t))
	}
	return points
}

// evalCubic evaluates the Bernstein form of the cubic at t.
func evalCubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
	}
}

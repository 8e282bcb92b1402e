package canvas

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Paint holds the styling used by a fill or stroke operation.
//
// Unlike the upstream gg library, this package never needs gradients,
// patterns or dashing: every shape drawn by the plot renderer is a solid
// fill or a straight stroked line, so Paint stays a plain value type.
type Paint struct {
	Color     RGBA
	LineWidth float64
	FillRule  FillRule
}

// NewPaint creates a Paint with sensible defaults: opaque black, hairline
// stroke width, non-zero winding fill.
func NewPaint() *Paint {
	return &Paint{
		Color:     Black,
		LineWidth: 1.0,
		FillRule:  FillRuleNonZero,
	}
}
package canvas

// Context is an immediate-mode drawing surface, modeled on HTML Canvas:
// a current path, a current paint, and a stack of saved transforms. It is
// the drawing primitive every geom renderer in this worker builds on top
// of — panel backgrounds, point markers, heatmap tiles and chrome (axes,
// gridlines, strip labels) all go through the same Context.
type Context struct {
	width, height int
	pixmap        *Pixmap
	renderer      *SoftwareRenderer

	path   *Path
	paint  *Paint
	matrix Matrix
	stack  []state
}

type state struct {
	matrix Matrix
	paint  Paint
}

// NewContext creates a drawing context of the given pixel dimensions,
// backed by an opaque white canvas.
func NewContext(width, height int) *Context {
	pm := NewPixmap(width, height)
	pm.Clear(White)
	return &Context{
		width:    width,
		height:   height,
		pixmap:   pm,
		renderer: NewSoftwareRenderer(width, height),
		path:     NewPath(),
		paint:    NewPaint(),
		matrix:   Identity(),
	}
}

// Width returns the context's pixel width.
func (c *Context) Width() int { return c.width }

// Height returns the context's pixel height.
func (c *Context) Height() int { return c.height }

// Pixmap returns the backing pixel buffer.
func (c *Context) Pixmap() *Pixmap { return c.pixmap }

// Push saves the current transform and paint state.
func (c *Context) Push() {
	c.stack = append(c.stack, state{matrix: c.matrix, paint: *c.paint})
}

// Pop restores the most recently pushed transform and paint state.
func (c *Context) Pop() {
	if len(c.stack) == 0 {
		return
	}
	s := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.matrix = s.matrix
	p := s.paint
	c.paint = &p
}

// Translate offsets the coordinate system by (x, y).
func (c *Context) Translate(x, y float64) {
	c.matrix = c.matrix.Multiply(Translate(x, y))
}

// Scale scales the coordinate system by (sx, sy).
func (c *Context) Scale(sx, sy float64) {
	c.matrix = c.matrix.Multiply(Scale(sx, sy))
}

// SetColor sets the fill and stroke color.
func (c *Context) SetColor(color RGBA) {
	c.paint.Color = color
}

// SetLineWidth sets the stroke width, in device pixels.
func (c *Context) SetLineWidth(w float64) {
	c.paint.LineWidth = w
}

// SetFillRule sets the winding rule used by Fill.
func (c *Context) SetFillRule(rule FillRule) {
	c.paint.FillRule = rule
}

// MoveTo starts a new subpath at (x, y), in the current coordinate system.
func (c *Context) MoveTo(x, y float64) {
	p := c.matrix.TransformPoint(Pt(x, y))
	c.path.MoveTo(p.X, p.Y)
}

// LineTo adds a line segment to (x, y).
func (c *Context) LineTo(x, y float64) {
	p := c.matrix.TransformPoint(Pt(x, y))
	c.path.LineTo(p.X, p.Y)
}

// ClosePath closes the current subpath.
func (c *Context) ClosePath() {
	c.path.Close()
}

// DrawRectangle adds a rectangle to the current path.
func (c *Context) DrawRectangle(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.ClosePath()
}

// DrawCircle adds a circle of the given radius centered at (cx, cy) to the
// current path. Used for scatter point markers.
func (c *Context) DrawCircle(cx, cy, r float64) {
	sub := NewPath()
	sub.Circle(cx, cy, r)
	c.appendTransformed(sub)
}

// appendTransformed applies the current matrix to sub's elements and
// appends them onto the context's path.
func (c *Context) appendTransformed(sub *Path) {
	transformed := sub.Transform(c.matrix)
	for _, elem := range transformed.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			c.path.MoveTo(e.Point.X, e.Point.Y)
		case LineTo:
			c.path.LineTo(e.Point.X, e.Point.Y)
		case CubicTo:
			c.path.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case Close:
			c.path.Close()
		}
	}
}

// Fill fills the current path and clears it.
func (c *Context) Fill() error {
	err := c.FillPreserve()
	c.path.Clear()
	return err
}

// FillPreserve fills the current path without clearing it.
func (c *Context) FillPreserve() error {
	return c.renderer.Fill(c.pixmap, c.path, c.paint)
}

// Stroke strokes the current path and clears it.
func (c *Context) Stroke() error {
	err := c.StrokePreserve()
	c.path.Clear()
	return err
}

// StrokePreserve strokes the current path without clearing it.
func (c *Context) StrokePreserve() error {
	return c.renderer.Stroke(c.pixmap, c.path, c.paint)
}

// ClearPath discards the current path without drawing it.
func (c *Context) ClearPath() {
	c.path.Clear()
}

// SavePNG writes the canvas to disk as a PNG file. Intended for local
// debugging; the worker's production output path streams PNG bytes
// directly through the result encoder instead of touching a file.
func (c *Context) SavePNG(path string) error {
	return c.pixmap.SavePNG(path)
}

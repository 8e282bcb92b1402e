// Package raster is the incremental rasterizer: it owns the flush
// discipline between chunks and the final streaming PNG encode, on top
// of the canvas package's immediate-mode software renderer.
package raster

import (
	"io"

	"github.com/tercen/ggrs-plot-operator/internal/canvas"
	"github.com/tercen/ggrs-plot-operator/internal/pngstream"
)

// Surface wraps the shared pixel surface for one render. Its Flush
// method is the hook point the driver calls after panel setup and
// after every data chunk; the software renderer in
// internal/canvas rasterizes synchronously inside Fill/Stroke (there is
// no backend command queue to drain), so Flush is a documented no-op
// here rather than a real drain — it exists so the chunk-scoped
// discipline is structurally present and so a future buffering backend
// can hang a real flush off the same call site without changing the
// driver.
type Surface struct {
	ctx *canvas.Context
}

// Wrap adapts an already-built canvas.Context (from panel.Grid.Surface)
// into a Surface.
func Wrap(ctx *canvas.Context) *Surface {
	return &Surface{ctx: ctx}
}

// Flush is called after panel setup and after each routed+rendered
// chunk. See the Surface doc comment for why this is a no-op on the
// software backend.
func (s *Surface) Flush() {}

// EncodePNG streams the final pixel surface to w, row by row, via
// internal/pngstream.
func (s *Surface) EncodePNG(w io.Writer) error {
	return pngstream.Encode(w, s.ctx.Pixmap())
}

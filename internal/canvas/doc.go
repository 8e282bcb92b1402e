// Package canvas is the 2D drawing backend for the plot renderer: an
// immediate-mode Context over an in-memory Pixmap, rasterized in software
// with 4x supersampled anti-aliasing.
//
// # Overview
//
// The API follows the HTML Canvas model: build a path, set a paint, fill
// or stroke. Every shape the render pipeline produces — panel backgrounds,
// gridlines, scatter markers, heatmap tiles — goes through this package.
//
//	dc := canvas.NewContext(512, 512)
//	dc.SetColor(canvas.RGB(1, 0, 0))
//	dc.DrawCircle(256, 256, 100)
//	dc.Fill()
//
// # Architecture
//
//   - Public API: Context, Path, Paint, Matrix, Point
//   - internal/canvas/path: curve flattening to polylines
//   - internal/canvas/raster: supersampled scanline fill
//
// Pixmap implements image.Image and draw.Image, so text can be drawn onto
// it directly with golang.org/x/image/font.
//
// # Coordinate System
//
// Standard raster coordinates: origin (0,0) at top-left, X increases
// right, Y increases down.
package canvas

package canvas

// Renderer rasterizes paths onto a pixmap. SoftwareRenderer is the only
// implementation this package ships.
type Renderer interface {
	Fill(pixmap *Pixmap, path *Path, paint *Paint) error
	Stroke(pixmap *Pixmap, path *Path, paint *Paint) error
}

// Package pngstream encodes a canvas.Pixmap to PNG one scanline at a
// time, so the only allocation the encoder makes beyond its compressor
// is a single row-sized staging buffer — the pixel surface itself is
// never copied into a second full-image buffer the way image/png's
// Encode(w, image.Image) does internally.
//
// The chunk framing (length-prefixed, CRC32-trailed chunks wrapping a
// zlib-compressed IDAT stream) follows the PNG structure used by
// shutej/apng's writer, adapted here to emit a single still frame
// (IHDR, one or more IDAT chunks, IEND) instead of an animated series.
package pngstream

import (
	"bufio"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/tercen/ggrs-plot-operator/internal/canvas"
	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

const (
	colorTypeTruecolor = 2
	bitDepth8          = 8
	idatBufferSize     = 32 * 1024
)

// Encode streams pm to w as an 8-bit truecolor (no alpha) PNG, row by
// row. All theme colors this worker draws are opaque, so the alpha
// channel is discarded rather than emitted.
func Encode(w io.Writer, pm *canvas.Pixmap) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(pngSignature); err != nil {
		return ploterrors.Wrap(ploterrors.KindEncodePNG, "write signature", err)
	}
	if err := writeIHDR(bw, pm.Width(), pm.Height()); err != nil {
		return err
	}
	if err := writeIDAT(bw, pm); err != nil {
		return err
	}
	if err := writeChunk(bw, "IEND", nil); err != nil {
		return ploterrors.Wrap(ploterrors.KindEncodePNG, "write IEND", err)
	}

	if err := bw.Flush(); err != nil {
		return ploterrors.Wrap(ploterrors.KindEncodePNG, "flush output", err)
	}
	return nil
}

func writeIHDR(w io.Writer, width, height int) error {
	var data [13]byte
	binary.BigEndian.PutUint32(data[0:4], uint32(width))
	binary.BigEndian.PutUint32(data[4:8], uint32(height))
	data[8] = bitDepth8
	data[9] = colorTypeTruecolor
	data[10] = 0 // compression method
	data[11] = 0 // filter method
	data[12] = 0 // interlace method
	if err := writeChunk(w, "IHDR", data[:]); err != nil {
		return ploterrors.Wrap(ploterrors.KindEncodePNG, "write IHDR", err)
	}
	return nil
}

// idatChunker buffers zlib output and flushes it as IDAT chunks once
// idatBufferSize bytes have accumulated, so a large image never
// requires one giant in-memory compressed buffer.
type idatChunker struct {
	w   io.Writer
	buf []byte
	err error
}

func newIDATChunker(w io.Writer) *idatChunker {
	return &idatChunker{w: w, buf: make([]byte, 0, idatBufferSize)}
}

func (c *idatChunker) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n := len(p)
	for len(p) > 0 {
		space := idatBufferSize - len(c.buf)
		take := space
		if take > len(p) {
			take = len(p)
		}
		c.buf = append(c.buf, p[:take]...)
		p = p[take:]
		if len(c.buf) == idatBufferSize {
			if err := c.flush(); err != nil {
				c.err = err
				return n - len(p), err
			}
		}
	}
	return n, nil
}

func (c *idatChunker) flush() error {
	if len(c.buf) == 0 {
		return nil
	}
	if err := writeChunk(c.w, "IDAT", c.buf); err != nil {
		return err
	}
	c.buf = c.buf[:0]
	return nil
}

func writeIDAT(w io.Writer, pm *canvas.Pixmap) error {
	chunker := newIDATChunker(w)
	zw := zlib.NewWriter(chunker)

	width, height := pm.Width(), pm.Height()
	data := pm.Data() // RGBA, 4 bytes/pixel
	row := make([]byte, 1+width*3)

	for y := 0; y < height; y++ {
		row[0] = 0 // filter type None
		rgba := data[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			row[1+x*3+0] = rgba[x*4+0]
			row[1+x*3+1] = rgba[x*4+1]
			row[1+x*3+2] = rgba[x*4+2]
		}
		if _, err := zw.Write(row); err != nil {
			return ploterrors.Wrap(ploterrors.KindEncodePNG, "compress scanline", err)
		}
	}

	if err := zw.Close(); err != nil {
		return ploterrors.Wrap(ploterrors.KindEncodePNG, "close zlib stream", err)
	}
	if err := chunker.flush(); err != nil {
		return ploterrors.Wrap(ploterrors.KindEncodePNG, "flush final IDAT", err)
	}
	return nil
}

func writeChunk(w io.Writer, typ string, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}

	crc := crc32.NewIEEE()
	typBytes := []byte(typ)
	if _, err := w.Write(typBytes); err != nil {
		return err
	}
	_, _ = crc.Write(typBytes)

	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, _ = crc.Write(data)
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	_, err := w.Write(crcBuf[:])
	return err
}

package canvas

import (
	"errors"
	"fmt"
	"image/color"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGBA implements color.Color directly so values can be passed anywhere
// the standard image package expects a color, without a conversion step.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp255(c.A*255) / 255 * 65535)
	r = uint32(clamp255(c.R*c.A*255) / 255 * 65535)
	g = uint32(clamp255(c.G*c.A*255) / 255 * 65535)
	b = uint32(clamp255(c.B*c.A*255) / 255 * 65535)
	return
}

// FromColor converts a standard color.Color to RGBA, undoing the
// alpha premultiplication of color.Color's RGBA values.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBA{}
	}
	return RGBA{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: float64(a) / 65535,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA2 creates a color from RGBA components.
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// ErrInvalidHexColor is returned by ParseHexColor when the input does not
// match any of the supported hex color shorthand lengths.
var ErrInvalidHexColor = errors.New("canvas: invalid hex color")

// Hex creates a color from a hex string, defaulting to opaque black on
// malformed input. Kept for quick literal colors in chrome drawing where
// the string is a compile-time constant; anything coming from outside the
// process (a plot spec field) must go through ParseHexColor instead.
func Hex(hex string) RGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		return RGBA{R: 0, G: 0, B: 0, A: 1}
	}
	return c
}

// ParseHexColor parses a hex color string in "RGB", "RGBA", "RRGGBB" or
// "RRGGBBAA" form (with or without a leading '#') and reports an error
// instead of silently substituting a color when the string is malformed.
func ParseHexColor(hex string) (RGBA, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
		}
		r, g, b = r*17, g*17, b*17
	case 4:
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) || !parseHex(hex[3:4], &a) {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
		}
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
		}
	case 8:
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) || !parseHex(hex[6:8], &a) {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
		}
	default:
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// parseHex decodes a hex digit run into val, reporting false on any
// non-hex character.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(1, 0, 1)
	Transparent = RGBA2(0, 0, 0, 0)
)

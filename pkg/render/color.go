package render

import (
	"image/color"
	"math"
)

// RGB is a linear floating point colour. Channels are nominally in [0, 1]
// but lighting may push them higher until MaxToOne is applied.
type RGB struct {
	R, G, B float64
}

// Gray returns an RGB with all three channels set to v.
func Gray(v float64) RGB {
	return RGB{v, v, v}
}

// Common colours.
var (
	Black = RGB{}
	White = RGB{1, 1, 1}
)

// Add returns the channel-wise sum.
func (c RGB) Add(o RGB) RGB {
	return RGB{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Scale multiplies every channel by s.
func (c RGB) Scale(s float64) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Mul returns the channel-wise product.
func (c RGB) Mul(o RGB) RGB {
	return RGB{c.R * o.R, c.G * o.G, c.B * o.B}
}

// MaxToOne rescales the colour so its largest channel is at most 1.
// All channels are divided by the same factor, so hue is preserved.
func (c RGB) MaxToOne() RGB {
	m := max(c.R, c.G, c.B)
	if m <= 1 {
		return c
	}
	return c.Scale(1 / m)
}

// RGBA quantizes the colour to 8 bits per channel, clamping to [0, 1].
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{to8(c.R), to8(c.G), to8(c.B), 255}
}

// FromRGBA converts an 8-bit colour to RGB.
func FromRGBA(c color.RGBA) RGB {
	return RGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func to8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

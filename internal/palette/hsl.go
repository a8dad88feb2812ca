package palette

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// CSS formats the colour as a CSS rgb() string.
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// HSL holds hue in degrees [0, 360) and saturation and lightness in
// percent [0, 100].
type HSL struct {
	H, S, L float64
}

// ToHSL converts an RGB colour to HSL.
func ToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l := (hi + lo) / 2

	var h, s float64
	if hi != lo {
		d := hi - lo
		if l > 0.5 {
			s = d / (2 - hi - lo)
		} else {
			s = d / (hi + lo)
		}
		switch hi {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}
	return HSL{H: h * 360, S: s * 100, L: l * 100}
}

// RGB converts back to 8-bit RGB, rounding each channel.
func (h HSL) RGB() RGB {
	c := gg.HSL(h.H, clampUnit(h.S/100), clampUnit(h.L/100))
	return RGB{
		R: toByte(c.R),
		G: toByte(c.G),
		B: toByte(c.B),
	}
}

// Softened washes the colour out into a pale background tint. Saturation
// drops to 15% of the source with a floor of 8. Sources at or below 16% are
// halved instead, so the result is always less saturated than the source.
// Lightness gains 20 points, capped at 95.
func (h HSL) Softened() HSL {
	h.S = math.Min(h.S/2, math.Max(h.S*0.15, 8))
	h.L = math.Min(h.L+20, 95)
	return h
}

// saturationStep is how far Soften lowers saturation when 8-bit rounding
// would leave the result as saturated as the source.
const saturationStep = 0.5

// Soften applies Softened to an RGB colour. The saturation is measured again
// after rounding and lowered until it is below the source's; a grey source
// stays grey.
func Soften(c RGB) RGB {
	src := ToHSL(c)
	h := src.Softened()
	out := h.RGB()
	for src.S > 0 && h.S > 0 && ToHSL(out).S >= src.S {
		h.S = math.Max(0, h.S-saturationStep)
		out = h.RGB()
	}
	return out
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clampUnit(v) * 255))
}

// Package palette derives a soft background tint from an image by averaging
// its pixels and washing out the result.
package palette

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// SampleSize is the edge of the square grid images are reduced to before
// averaging.
const SampleSize = 100

// Fallback is returned whenever no colour can be computed.
const Fallback = "rgb(240, 240, 240)"

// Placeholder is the gallery background used before a colour is known.
const Placeholder = "rgb(255, 255, 255)"

// Average reduces img to a SampleSize grid and averages the RGB channels of
// every pixel that is not fully transparent. ok is false when the image is
// empty or has no such pixels.
func Average(img image.Image) (c RGB, ok bool) {
	if img == nil || img.Bounds().Empty() {
		return RGB{}, false
	}

	grid := image.NewNRGBA(image.Rect(0, 0, SampleSize, SampleSize))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), img, img.Bounds(), draw.Src, nil)

	var r, g, b, n float64
	for i := 0; i < len(grid.Pix); i += 4 {
		if grid.Pix[i+3] == 0 {
			continue
		}
		r += float64(grid.Pix[i])
		g += float64(grid.Pix[i+1])
		b += float64(grid.Pix[i+2])
		n++
	}
	if n == 0 {
		return RGB{}, false
	}
	return RGB{
		R: uint8(math.Round(r / n)),
		G: uint8(math.Round(g / n)),
		B: uint8(math.Round(b / n)),
	}, true
}

// DominantColor returns the softened average colour of img as a CSS string,
// or Fallback.
func DominantColor(img image.Image) string {
	avg, ok := Average(img)
	if !ok {
		return Fallback
	}
	return Soften(avg).CSS()
}

// Package dottext renders one or two lines of text as a field of small dots,
// the decorative background behind the hero heading.
//
// The text is drawn once onto an oversized offscreen surface. That surface
// is then sampled on a regular grid, and every sample that lands inside a
// glyph becomes a dot on the visible surface.
package dottext

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
)

// Dot colours per theme.
const (
	LightColor = "#7E71D4"
	DarkColor  = "#A99CFB"
)

// Limits for requested surfaces.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
	MaxDPR    = 3

	// maxOffscreenPixels bounds the scratch surface. Larger requests sample
	// the text at a lower device pixel ratio.
	maxOffscreenPixels = 16_000_000

	alphaThreshold = 100
	overscan       = 1.5
	mobileBreak    = 768
	minFontSize    = 36
)

// Options describes one rendering.
type Options struct {
	// Lines holds the text, one entry per line. Blank lines are dropped.
	Lines []string
	// Width and Height are the visible surface size in CSS pixels.
	Width, Height int
	Dark          bool
	// DPR is the device pixel ratio, clamped to [1, MaxDPR].
	DPR float64
}

// Normalize trims the lines and clamps sizes to the supported range.
func (o Options) Normalize() Options {
	lines := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	o.Lines = lines
	o.Width = min(o.Width, MaxWidth)
	o.Height = min(o.Height, MaxHeight)
	switch {
	case o.DPR < 1 || math.IsNaN(o.DPR):
		o.DPR = 1
	case o.DPR > MaxDPR:
		o.DPR = MaxDPR
	}
	return o
}

// Key identifies a normalized rendering, for caching.
func (o Options) Key() string {
	return fmt.Sprintf("%q|%dx%d|%t|%.2f", o.Lines, o.Width, o.Height, o.Dark, o.DPR)
}

// Color returns the dot colour for the theme.
func (o Options) Color() string {
	if o.Dark {
		return DarkColor
	}
	return LightColor
}

// Point is a dot centre in CSS pixels of the visible surface.
type Point struct {
	X, Y float64
}

// Layout is the result of planning a rendering.
type Layout struct {
	Width, Height int
	DPR           float64
	FontSize      float64
	Color         string
	Radius        float64
	Spacing       float64
	Dots          []Point
}

// Empty reports whether nothing would be drawn.
func (l Layout) Empty() bool { return len(l.Dots) == 0 }

// Renderer owns the font used for every rendering.
type Renderer struct {
	source *text.FontSource
}

// NewRenderer loads a TTF/OTF font. Nil data selects Go Bold.
func NewRenderer(fontData []byte) (*Renderer, error) {
	if fontData == nil {
		fontData = gobold.TTF
	}
	src, err := text.NewFontSource(fontData)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Renderer{source: src}, nil
}

// NewRendererFromFile loads the font at path, or Go Bold when path is empty.
func NewRendererFromFile(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer(nil)
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return &Renderer{source: src}, nil
}

// Close releases the font.
func (r *Renderer) Close() error {
	if r == nil || r.source == nil {
		return nil
	}
	return r.source.Close()
}

// FontName returns the loaded font's name.
func (r *Renderer) FontName() string {
	if r == nil || r.source == nil {
		return ""
	}
	return r.source.Name()
}

// FitFontSize picks the font size for a surface width, given a function that
// measures the widest line at a size. The text block is limited to 60% of
// the width on desktop and 85% on mobile, and never wider than 1280.
func FitFontSize(width float64, widest func(size float64) float64) float64 {
	mobile := width < mobileBreak

	ratio, mult, maxSize := 0.6, 0.15, 243.0
	if mobile {
		ratio, mult, maxSize = 0.85, 0.12, 150.0
	}
	maxTextWidth := math.Min(1280, width*ratio)

	size := math.Max(minFontSize, math.Min(maxSize, width*mult))
	if !mobile {
		size = math.Min(size*1.35, maxSize)
	}

	if lw := widest(size); lw > maxTextWidth && lw > 0 {
		size = size * maxTextWidth / lw
		size = math.Max(minFontSize, math.Min(size, maxSize))
	}
	return size
}

// Spacing returns the sampling grid step and dot diameter for a width.
func Spacing(width float64) (step, diameter float64) {
	step = math.Max(2.5, math.Min(3.5, width/400))
	diameter = math.Max(1.5, math.Min(2.5, width/500))
	return step, diameter
}

// verticalOffset lifts the text above the surface centre.
func verticalOffset(width float64) float64 {
	if width < mobileBreak {
		return 132
	}
	return 150
}

// Plan computes the dots for opts without drawing the visible surface.
// Empty text, non-positive sizes or a missing font give an empty layout.
func (r *Renderer) Plan(opts Options) Layout {
	opts = opts.Normalize()
	layout := Layout{
		Width:  max(opts.Width, 0),
		Height: max(opts.Height, 0),
		DPR:    opts.DPR,
		Color:  opts.Color(),
	}
	if r == nil || r.source == nil || opts.Width <= 0 || opts.Height <= 0 || len(opts.Lines) == 0 {
		return layout
	}

	w, h := float64(opts.Width), float64(opts.Height)
	layout.FontSize = FitFontSize(w, func(size float64) float64 {
		face := r.source.Face(size)
		var widest float64
		for _, l := range opts.Lines {
			widest = math.Max(widest, face.Advance(l))
		}
		return widest
	})
	layout.Spacing, layout.Radius = Spacing(w)
	layout.Radius /= 2

	tempW, tempH := w*overscan, h*overscan
	scale := opts.DPR
	if px := tempW * tempH * scale * scale; px > maxOffscreenPixels {
		scale = math.Sqrt(maxOffscreenPixels / (tempW * tempH))
	}
	pw, ph := int(tempW*scale), int(tempH*scale)
	if pw <= 0 || ph <= 0 {
		return layout
	}

	mask := r.drawMask(opts.Lines, layout.FontSize, w, tempW, tempH, scale, pw, ph)

	originX, originY := (w-tempW)/2, (h-tempH)/2
	for py := 0.0; py < tempH; py += layout.Spacing {
		y := originY + py
		if y < -layout.Radius || y > h+layout.Radius {
			continue
		}
		sy := int(py * scale)
		if sy >= ph {
			break
		}
		for px := 0.0; px < tempW; px += layout.Spacing {
			x := originX + px
			if x < -layout.Radius || x > w+layout.Radius {
				continue
			}
			sx := int(px * scale)
			if sx >= pw {
				break
			}
			if mask[(sy*pw+sx)*4+3] > alphaThreshold {
				layout.Dots = append(layout.Dots, Point{X: x, Y: y})
			}
		}
	}
	return layout
}

// drawMask rasterizes the text onto the offscreen surface and returns its
// RGBA bytes.
func (r *Renderer) drawMask(lines []string, fontSize, w, tempW, tempH, scale float64, pw, ph int) []uint8 {
	pm := gg.NewPixmap(pw, ph)
	dc := gg.NewContext(pw, ph, gg.WithPixmap(pm))
	defer func() { _ = dc.Close() }()

	face := r.source.Face(fontSize * scale)
	dc.SetFont(face)
	dc.SetRGBA(0, 0, 0, 1)

	offset := verticalOffset(w)
	centreX := tempW / 2

	if len(lines) == 1 {
		m := face.Metrics()
		baseline := (tempH/2-offset)*scale + (m.Ascent-m.Descent)/2
		adv := face.Advance(lines[0])
		dc.DrawString(lines[0], centreX*scale-adv/2, baseline)
		return pm.Data()
	}

	lineHeight := fontSize * 1.15
	total := lineHeight*float64(len(lines)-1) + fontSize
	startY := tempH/2 - total/2 + fontSize - offset
	for i, l := range lines {
		adv := face.Advance(l)
		dc.DrawString(l, centreX*scale-adv/2, (startY+float64(i)*lineHeight)*scale)
	}
	return pm.Data()
}

// Render plans and draws the dots onto a transparent surface of
// Width*DPR by Height*DPR pixels. An empty layout yields a fully transparent
// image, or a 1x1 one when the size is not positive.
func (r *Renderer) Render(opts Options) image.Image {
	return Draw(r.Plan(opts))
}

// Draw paints a planned layout.
func Draw(l Layout) image.Image {
	pw := int(math.Round(float64(l.Width) * l.DPR))
	ph := int(math.Round(float64(l.Height) * l.DPR))
	if pw <= 0 || ph <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	dc := gg.NewContext(pw, ph)
	defer func() { _ = dc.Close() }()
	dc.Clear()
	if l.Empty() {
		return dc.Image()
	}

	dc.Scale(l.DPR, l.DPR)
	dc.SetHexColor(l.Color)
	for _, p := range l.Dots {
		dc.DrawCircle(p.X, p.Y, l.Radius)
	}
	_ = dc.Fill()
	return dc.Image()
}

// EncodePNG renders opts and writes the PNG to w.
func (r *Renderer) EncodePNG(w io.Writer, opts Options) error {
	return png.Encode(w, r.Render(opts))
}

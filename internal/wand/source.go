package wand

import (
	"image"
	"image/color"
)

// ITU-R BT.601 luma weights, shared by the grayscale conversion and the
// brightness direction of the color tolerance test.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Band is a [Low, High] acceptance interval for sample values, in
// calibrated units. Both bounds are inclusive.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// Calibration describes the physical scaling of an image.
//
// PixelWidth and PixelHeight give the physical size of one pixel; when
// they differ, the gradient test scales the y-component accordingly.
// Table, when non-nil, maps raw 8-bit samples to calibrated values and
// must have 256 entries.
type Calibration struct {
	PixelWidth  float64
	PixelHeight float64
	Unit        string
	ValueUnit   string
	Table       []float32
}

// mapValue applies the calibration table to a raw 8-bit sample.
func (c *Calibration) mapValue(raw uint8) float32 {
	if c != nil && len(c.Table) == 256 {
		return c.Table[raw]
	}
	return float32(raw)
}

// Source supplies pixel samples to the region grower. ValueAt returns
// the calibrated grayscale sample; for color-backed sources it is the
// luma value, which is what gradient gating operates on.
//
// Implementations are read-only for the duration of a Grow call; the
// caller must not mutate the underlying image concurrently.
type Source interface {
	Width() int
	Height() int
	ValueAt(x, y int) float32

	// Calibration returns the spatial calibration, or nil when the
	// image is uncalibrated.
	Calibration() *Calibration

	// Threshold returns the active binarization band. When ok is true
	// the image is treated as already thresholded and ValueTolerance is
	// ignored for banding.
	Threshold() (band Band, ok bool)
}

// RGBSource is implemented by sources backed by color data. The region
// grower switches to the color tolerance test when the source satisfies
// this interface and ColorSensitivity > -1.
type RGBSource interface {
	Source
	RGBAt(x, y int) (r, g, b uint8)
}

// valueResolver maps an external reference color (the eyedropper
// foreground) into the source's calibrated value space.
type valueResolver interface {
	ResolveValue(c color.Color) float32
}

// NewSource wraps a decoded image as a wand Source, choosing the gray
// or RGB accessor variant once based on the image kind. band may be nil.
func NewSource(img image.Image, cal *Calibration, band *Band) Source {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return NewGrayImage(img, cal, band)
	default:
		return NewRGBImage(img, cal, band)
	}
}

// GrayImage adapts a grayscale image.Image to the Source interface.
// Samples are converted once at construction; 8-bit samples pass through
// the calibration table when one is present.
type GrayImage struct {
	width, height int
	values        []float32
	cal           *Calibration
	band          *Band
}

// NewGrayImage converts img to a calibrated grayscale source. Non-gray
// inputs are reduced to luma.
func NewGrayImage(img image.Image, cal *Calibration, band *Band) *GrayImage {
	bounds := img.Bounds()
	g := &GrayImage{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		cal:    cal,
		band:   band,
	}
	g.values = make([]float32, g.width*g.height)

	switch src := img.(type) {
	case *image.Gray16:
		// 16-bit samples are kept at full range; no table lookup.
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				v := src.Gray16At(x+bounds.Min.X, y+bounds.Min.Y).Y
				g.values[y*g.width+x] = float32(v)
			}
		}
	case *image.Gray:
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				raw := src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
				g.values[y*g.width+x] = cal.mapValue(raw)
			}
		}
	default:
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				r, gg, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				raw := luma8(uint8(r>>8), uint8(gg>>8), uint8(b>>8))
				g.values[y*g.width+x] = cal.mapValue(raw)
			}
		}
	}
	return g
}

func (g *GrayImage) Width() int  { return g.width }
func (g *GrayImage) Height() int { return g.height }

func (g *GrayImage) ValueAt(x, y int) float32 {
	return g.values[y*g.width+x]
}

func (g *GrayImage) Calibration() *Calibration { return g.cal }

func (g *GrayImage) Threshold() (Band, bool) {
	if g.band == nil {
		return Band{}, false
	}
	return *g.band, true
}

// ResolveValue maps an eyedropper color into this source's value space.
func (g *GrayImage) ResolveValue(c color.Color) float32 {
	r, gg, b, _ := c.RGBA()
	return g.cal.mapValue(luma8(uint8(r>>8), uint8(gg>>8), uint8(b>>8)))
}

// RGBImage adapts a color image.Image to the Source interface, exposing
// both raw RGB triples and luma values (the latter feed gradient gating
// and grayscale banding when color mode is off).
type RGBImage struct {
	width, height int
	rgb           []uint8 // 3 bytes per pixel
	values        []float32
	cal           *Calibration
	band          *Band
}

// NewRGBImage converts img to an RGB source with precomputed luma.
func NewRGBImage(img image.Image, cal *Calibration, band *Band) *RGBImage {
	bounds := img.Bounds()
	p := &RGBImage{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		cal:    cal,
		band:   band,
	}
	p.rgb = make([]uint8, 3*p.width*p.height)
	p.values = make([]float32, p.width*p.height)

	i := 0
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			p.rgb[3*i] = r8
			p.rgb[3*i+1] = g8
			p.rgb[3*i+2] = b8
			p.values[i] = cal.mapValue(luma8(r8, g8, b8))
			i++
		}
	}
	return p
}

func (p *RGBImage) Width() int  { return p.width }
func (p *RGBImage) Height() int { return p.height }

func (p *RGBImage) ValueAt(x, y int) float32 {
	return p.values[y*p.width+x]
}

func (p *RGBImage) RGBAt(x, y int) (r, g, b uint8) {
	i := 3 * (y*p.width + x)
	return p.rgb[i], p.rgb[i+1], p.rgb[i+2]
}

func (p *RGBImage) Calibration() *Calibration { return p.cal }

func (p *RGBImage) Threshold() (Band, bool) {
	if p.band == nil {
		return Band{}, false
	}
	return *p.band, true
}

// ResolveValue maps an eyedropper color into this source's value space.
func (p *RGBImage) ResolveValue(c color.Color) float32 {
	r, g, b, _ := c.RGBA()
	return p.cal.mapValue(luma8(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

// luma8 reduces an 8-bit RGB triple to its BT.601 luma, rounded to the
// nearest 8-bit step.
func luma8(r, g, b uint8) uint8 {
	v := lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)
	return uint8(v + 0.5)
}

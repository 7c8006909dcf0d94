package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) space.
//
// HSL is often more intuitive than RGB when judging whether the wand's color
// sensitivity should lean toward hue or brightness matching:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled color in multiple representations.
//
//   - Hex: Compact string format, directly usable as a wand foreground
//   - RGB: Standard 8-bit components without alpha
//   - HSL: Perceptual color space for intuitive judgment
//   - Luma: The BT.601 grayscale value the wand's value tolerance operates on
type ColorResult struct {
	Hex  string   `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor `json:"rgb"`  // RGB components
	HSL  HSLColor `json:"hsl"`  // HSL representation
	Luma uint8    `json:"luma"` // BT.601 luma (0-255)
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// The function reads the native color from the image and converts it to 8-bit
// components. For 16-bit images, values are scaled down by right-shifting
// 8 bits. The Luma field matches the value the region grower would use as its
// reference when seeded on this pixel.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

	cf := colorful.Color{R: float64(r8) / 255, G: float64(g8) / 255, B: float64(b8) / 255}
	h, s, l := cf.Hsl()
	luma := 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8)

	return &ColorResult{
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSL: HSLColor{
			H: int(h + 0.5),
			S: int(s*100 + 0.5),
			L: int(l*100 + 0.5),
		},
		Luma: uint8(luma + 0.5),
	}, nil
}

// ParseColor parses a hex color string like "#FF0000" or "#FF000080" into a
// color usable as the wand's eyedropper foreground. The leading '#' is
// optional; six-digit strings get full opacity.
func ParseColor(hex string) (color.Color, error) {
	if len(hex) == 0 {
		return nil, fmt.Errorf("empty color string")
	}
	raw := hex
	if raw[0] == '#' {
		raw = raw[1:]
	}

	switch len(raw) {
	case 6:
		cf, err := colorful.Hex("#" + raw)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", hex, err)
		}
		r, g, b := cf.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(raw, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", hex, err)
		}
		return color.NRGBA{
			R: uint8(val >> 24),
			G: uint8(val >> 16),
			B: uint8(val >> 8),
			A: uint8(val),
		}, nil
	}
	return nil, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", hex)
}

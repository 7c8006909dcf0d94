package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// RenderResult contains an image with a selection overlay
type RenderResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AreaPixels   int    `json:"area_pixels"`
	PolygonCount int    `json:"polygon_count"`
	ImageBase64  string `json:"image_base64"`
	MimeType     string `json:"mime_type"`
}

// RenderSelection draws a wand selection on top of its source image: a solid
// outline along the selection boundary plus an optional translucent fill over
// the selected pixels. The overlay colors accept "#RRGGBB" or "#RRGGBBAA";
// an empty fill color skips the fill.
func RenderSelection(img image.Image, sel *wand.Selection, outlineHex, fillHex string) (*RenderResult, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if sel.Width() != width || sel.Height() != height {
		return nil, fmt.Errorf("selection size %dx%d does not match image %dx%d",
			sel.Width(), sel.Height(), width, height)
	}

	outline, err := parseHexColor(outlineHex)
	if err != nil {
		outline = color.RGBA{255, 255, 0, 255} // Default: opaque yellow
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	if fillHex != "" {
		fill, err := parseHexColor(fillHex)
		if err != nil {
			return nil, fmt.Errorf("invalid fill color: %w", err)
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if sel.Contains(x, y) {
					blend(result, x, y, fill)
				}
			}
		}
	}

	// A selected pixel with an unselected 4-neighbor (or an image edge)
	// sits on the boundary.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !sel.Contains(x, y) {
				continue
			}
			if !sel.Contains(x-1, y) || !sel.Contains(x+1, y) ||
				!sel.Contains(x, y-1) || !sel.Contains(x, y+1) {
				result.SetRGBA(x, y, outline)
			}
		}
	}

	encoded, err := encodePNGBase64(result)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Width:        width,
		Height:       height,
		AreaPixels:   sel.Area(),
		PolygonCount: len(sel.Polygons()),
		ImageBase64:  encoded,
		MimeType:     "image/png",
	}, nil
}

// MaskImage renders a selection as a standalone black-and-white mask PNG.
func MaskImage(sel *wand.Selection) (*RenderResult, error) {
	encoded, err := encodePNGBase64(sel.ToGray())
	if err != nil {
		return nil, err
	}
	return &RenderResult{
		Width:        sel.Width(),
		Height:       sel.Height(),
		AreaPixels:   sel.Area(),
		PolygonCount: len(sel.Polygons()),
		ImageBase64:  encoded,
		MimeType:     "image/png",
	}, nil
}

// blend alpha-composites c over the pixel at (x, y).
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	base := img.RGBAAt(x, y)
	a := uint32(c.A)
	inv := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(base.R)*inv) / 255),
		G: uint8((uint32(c.G)*a + uint32(base.G)*inv) / 255),
		B: uint8((uint32(c.B)*a + uint32(base.B)*inv) / 255),
		A: 255,
	})
}

// parseHexColor parses a hex color string like "#FFFF00" or "#FFFF0080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

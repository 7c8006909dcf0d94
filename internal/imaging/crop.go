package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	OffsetX     int    `json:"offset_x"`
	OffsetY     int    `json:"offset_y"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropSelection extracts the bounding rectangle of a wand selection from its
// source image.
//
// When maskOutside is set, pixels inside the rectangle but outside the
// selection are blanked to the background color, isolating the selected
// object. A scale other than 1.0 resizes the result with Lanczos resampling.
func CropSelection(img image.Image, sel *wand.Selection, maskOutside bool, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	if sel.Width() != bounds.Dx() || sel.Height() != bounds.Dy() {
		return nil, fmt.Errorf("selection size %dx%d does not match image %dx%d",
			sel.Width(), sel.Height(), bounds.Dx(), bounds.Dy())
	}
	box := sel.Bounds()
	if box.Empty() {
		return nil, fmt.Errorf("cannot crop an empty selection")
	}

	var cropped image.Image
	if maskOutside {
		masked := image.NewNRGBA(box)
		draw.Draw(masked, box, image.NewUniform(color.White), image.Point{}, draw.Src)
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				if sel.Contains(x, y) {
					masked.Set(x, y, img.At(x+bounds.Min.X, y+bounds.Min.Y))
				}
			}
		}
		cropped = masked
	} else {
		cropped = imaging.Crop(img, box.Add(bounds.Min))
	}

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(box.Dx()) * scale)
		newHeight := int(float64(box.Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := encodePNGBase64(cropped)
	if err != nil {
		return nil, err
	}

	out := cropped.Bounds()
	return &CropResult{
		Width:       out.Dx(),
		Height:      out.Dy(),
		OffsetX:     box.Min.X,
		OffsetY:     box.Min.Y,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

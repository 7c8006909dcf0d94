package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// DespeckleResult contains the median-filtered image data
type DespeckleResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Radius      float64 `json:"radius"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

// Despeckle applies a median filter to remove salt-and-pepper noise before a
// wand selection. Noisy single pixels otherwise either block the flood fill
// or punch pinholes into the traced region.
//
// radius is the median window radius in pixels; values below 1 are raised to
// 1 (the classic 3x3 despeckle).
func Despeckle(img image.Image, radius float64) (*DespeckleResult, error) {
	if radius < 1 {
		radius = 1
	}

	filtered := effect.Median(img, radius)

	encoded, err := encodePNGBase64(filtered)
	if err != nil {
		return nil, fmt.Errorf("despeckle: %w", err)
	}

	bounds := filtered.Bounds()
	return &DespeckleResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Radius:      radius,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// DespeckleImage is the in-memory variant of Despeckle, returning the
// filtered image for chaining into a wand operation instead of encoding it.
func DespeckleImage(img image.Image, radius float64) image.Image {
	if radius < 1 {
		radius = 1
	}
	return effect.Median(img, radius)
}

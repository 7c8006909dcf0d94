package imaging

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// GradientPreviewResult contains a gradient magnitude visualization encoded
// as base64 PNG, plus summary statistics for choosing a gradient tolerance.
//
// The preview is a grayscale image where bright pixels mark strong local
// gradients. A gradient tolerance between the typical (median) and strong
// (90th percentile) magnitude usually stops the wand at visible boundaries
// without fragmenting smooth regions.
type GradientPreviewResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// ImageBase64 is the magnitude image encoded as base64 PNG, scaled so
	// the maximum magnitude maps to white (255).
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for gradient previews.
	MimeType string `json:"mime_type"`

	// MaxMagnitude is the strongest gradient found, in value units per
	// pixel.
	MaxMagnitude float64 `json:"max_magnitude"`

	// MeanMagnitude is the average gradient over all pixels.
	MeanMagnitude float64 `json:"mean_magnitude"`

	// MedianMagnitude is the 50th percentile gradient.
	MedianMagnitude float64 `json:"median_magnitude"`

	// P90Magnitude is the 90th percentile gradient; tolerances above this
	// rarely gate anything.
	P90Magnitude float64 `json:"p90_magnitude"`
}

// GradientPreview computes the Sobel gradient magnitude of an image.
//
// The same Sobel averaging feeds the wand's gradient gate, so the statistics
// here translate directly into GradientTolerance settings: a tolerance below
// a boundary's magnitude in the preview will stop the flood fill there.
//
// The image is reduced to BT.601 luma first; border pixels reuse the nearest
// interior gradient.
func GradientPreview(img image.Image) (*GradientPreviewResult, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	luma := make([]float64, width*height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			luma[i] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			i++
		}
	}

	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		if x >= width {
			x = width - 1
		}
		if y >= height {
			y = height - 1
		}
		return luma[y*width+x]
	}

	magnitudes := make([]float64, width*height)
	maxMag := 0.0
	sum := 0.0
	i = 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Sobel averaged to units of value change per pixel.
			gx := 0.125 * (2*(at(x+1, y)-at(x-1, y)) +
				(at(x+1, y-1) - at(x-1, y-1)) +
				(at(x+1, y+1) - at(x-1, y+1)))
			gy := 0.125 * (2*(at(x, y+1)-at(x, y-1)) +
				(at(x-1, y+1) - at(x-1, y-1)) +
				(at(x+1, y+1) - at(x+1, y-1)))
			mag := math.Sqrt(gx*gx + gy*gy)
			magnitudes[i] = mag
			sum += mag
			if mag > maxMag {
				maxMag = mag
			}
			i++
		}
	}

	preview := image.NewGray(image.Rect(0, 0, width, height))
	if maxMag > 0 {
		i = 0
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				preview.SetGray(x, y, color.Gray{Y: uint8(magnitudes[i] / maxMag * 255)})
				i++
			}
		}
	}

	encoded, err := encodePNGBase64(preview)
	if err != nil {
		return nil, err
	}

	sorted := make([]float64, len(magnitudes))
	copy(sorted, magnitudes)
	sort.Float64s(sorted)

	return &GradientPreviewResult{
		Width:           width,
		Height:          height,
		ImageBase64:     encoded,
		MimeType:        "image/png",
		MaxMagnitude:    round2(maxMag),
		MeanMagnitude:   round2(sum / float64(len(magnitudes))),
		MedianMagnitude: round2(percentile(sorted, 0.5)),
		P90Magnitude:    round2(percentile(sorted, 0.9)),
	}, nil
}

// percentile reads the p-th percentile from an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

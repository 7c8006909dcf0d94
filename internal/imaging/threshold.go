package imaging

import (
	"fmt"
	"image"

	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// ThresholdResult describes an automatic threshold computed for an image.
type ThresholdResult struct {
	// Threshold is the Otsu cut point on the 8-bit luma histogram.
	Threshold int `json:"threshold"`

	// Band is the acceptance band derived from the threshold. Dark=true
	// bands cover [0, threshold], otherwise (threshold, 255].
	Band wand.Band `json:"band"`

	// ForegroundFraction is the share of pixels falling inside the band.
	ForegroundFraction float64 `json:"foreground_fraction"`
}

// OtsuThreshold computes a binarization band by maximizing between-class
// variance on the luma histogram.
//
// dark selects which side of the cut counts as foreground: true picks the
// dark side (typical for stained particles on a bright background), false the
// bright side. Seeding the wand inside the returned band then grows within
// the thresholded phase; seeds outside it fail with ErrNotInThresholdedArea.
func OtsuThreshold(img image.Image, dark bool) (*ThresholdResult, error) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil, fmt.Errorf("empty image")
	}

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			hist[uint8(luma+0.5)]++
		}
	}

	sumAll := 0.0
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var (
		sumBack    float64
		weightBack int
		bestVar    float64
		threshold  int
	)
	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(t) * float64(hist[t])

		meanBack := sumBack / float64(weightBack)
		meanFore := (sumAll - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		between := float64(weightBack) * float64(weightFore) * diff * diff
		if between > bestVar {
			bestVar = between
			threshold = t
		}
	}

	band := wand.Band{Low: 0, High: float64(threshold)}
	inBand := 0
	for i := 0; i <= threshold; i++ {
		inBand += hist[i]
	}
	if !dark {
		band = wand.Band{Low: float64(threshold) + 1, High: 255}
		inBand = total - inBand
	}

	return &ThresholdResult{
		Threshold:          threshold,
		Band:               band,
		ForegroundFraction: round2(float64(inBand) / float64(total)),
	}, nil
}

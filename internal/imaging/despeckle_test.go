package imaging

import (
	"image/color"
	"testing"
)

func TestDespeckle_RemovesIsolatedPixel(t *testing.T) {
	img := solidImage(9, 9, color.RGBA{200, 200, 200, 255})
	img.Set(4, 4, color.RGBA{0, 0, 0, 255}) // lone speck

	result, err := Despeckle(img, 1)
	if err != nil {
		t.Fatalf("Despeckle failed: %v", err)
	}
	if result.Width != 9 || result.Height != 9 {
		t.Errorf("dimensions: got %dx%d, want 9x9", result.Width, result.Height)
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	r, _, _, _ := out.At(4, 4).RGBA()
	if r>>8 != 200 {
		t.Errorf("speck not removed: got red %d, want 200", r>>8)
	}
}

func TestDespeckle_RadiusFloor(t *testing.T) {
	img := solidImage(4, 4, color.White)
	result, err := Despeckle(img, 0)
	if err != nil {
		t.Fatalf("Despeckle failed: %v", err)
	}
	if result.Radius != 1 {
		t.Errorf("radius: got %g, want 1 (floored)", result.Radius)
	}
}

func TestDespeckleImage_PreservesEdges(t *testing.T) {
	// A solid half-plane boundary must survive the median filter.
	img := solidImage(10, 10, color.RGBA{0, 0, 0, 255})
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	out := DespeckleImage(img, 1)
	r, _, _, _ := out.At(2, 5).RGBA()
	if r>>8 != 0 {
		t.Errorf("dark side changed: got red %d, want 0", r>>8)
	}
	r, _, _, _ = out.At(7, 5).RGBA()
	if r>>8 != 255 {
		t.Errorf("bright side changed: got red %d, want 255", r>>8)
	}
}

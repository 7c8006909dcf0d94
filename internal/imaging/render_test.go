package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// decodeBase64PNG round-trips a result image back into memory.
func decodeBase64PNG(t *testing.T, encoded string) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

// centerSquareSelection selects the square [2,6)x[2,6) of an 8x8 mask.
func centerSquareSelection(t *testing.T) *wand.Selection {
	t.Helper()
	bits := make([]bool, 64)
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			bits[y*8+x] = true
		}
	}
	sel, err := wand.FromMask(bits, 8, 8)
	if err != nil {
		t.Fatalf("FromMask failed: %v", err)
	}
	return sel
}

func TestRenderSelection(t *testing.T) {
	img := solidImage(8, 8, color.RGBA{0, 0, 0, 255})
	sel := centerSquareSelection(t)

	result, err := RenderSelection(img, sel, "#FFFF00", "")
	if err != nil {
		t.Fatalf("RenderSelection failed: %v", err)
	}
	if result.Width != 8 || result.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 8x8", result.Width, result.Height)
	}
	if result.AreaPixels != 16 {
		t.Errorf("area: got %d, want 16", result.AreaPixels)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	// Boundary pixel painted with the outline color.
	r, g, b, _ := out.At(2, 2).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("boundary pixel: got (%d,%d,%d), want (255,255,0)", r>>8, g>>8, b>>8)
	}
	// Interior pixel untouched without a fill color.
	r, g, b, _ = out.At(4, 4).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("interior pixel: got (%d,%d,%d), want (0,0,0)", r>>8, g>>8, b>>8)
	}
	// Pixels outside the selection untouched.
	r, g, b, _ = out.At(0, 0).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("outside pixel: got (%d,%d,%d), want (0,0,0)", r>>8, g>>8, b>>8)
	}
}

func TestRenderSelection_Fill(t *testing.T) {
	img := solidImage(8, 8, color.RGBA{0, 0, 0, 255})
	sel := centerSquareSelection(t)

	result, err := RenderSelection(img, sel, "#FF0000", "#00FF0080")
	if err != nil {
		t.Fatalf("RenderSelection failed: %v", err)
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	// Interior pixel blended toward green but not fully.
	_, g, _, _ := out.At(4, 4).RGBA()
	if g8 := g >> 8; g8 == 0 || g8 == 255 {
		t.Errorf("interior green component: got %d, want a partial blend", g8)
	}
}

func TestRenderSelection_SizeMismatch(t *testing.T) {
	img := solidImage(4, 4, color.White)
	sel := centerSquareSelection(t) // 8x8
	if _, err := RenderSelection(img, sel, "#FFFF00", ""); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestRenderSelection_BadOutlineFallsBack(t *testing.T) {
	img := solidImage(8, 8, color.White)
	sel := centerSquareSelection(t)
	if _, err := RenderSelection(img, sel, "not-a-color", ""); err != nil {
		t.Errorf("invalid outline color should fall back to default, got %v", err)
	}
}

func TestMaskImage(t *testing.T) {
	sel := centerSquareSelection(t)

	result, err := MaskImage(sel)
	if err != nil {
		t.Fatalf("MaskImage failed: %v", err)
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("mask decoded as %T, want *image.Gray", out)
	}
	if gray.GrayAt(4, 4).Y != 255 {
		t.Error("selected pixel not white in mask")
	}
	if gray.GrayAt(0, 0).Y != 0 {
		t.Error("unselected pixel not black in mask")
	}
}

package imaging

import (
	"math"

	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// BoundsResult describes a selection's bounding rectangle in pixels.
type BoundsResult struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MeasureResult contains geometric measurements of a wand selection.
//
// Pixel measurements are always present; the calibrated fields repeat them in
// physical units when the image carries a spatial calibration, and in pixel
// units otherwise.
type MeasureResult struct {
	AreaPixels         int          `json:"area_pixels"`
	Area               float64      `json:"area"`
	PerimeterPixels    float64      `json:"perimeter_pixels"`
	Perimeter          float64      `json:"perimeter"`
	Bounds             BoundsResult `json:"bounds"`
	CentroidX          float64      `json:"centroid_x"`
	CentroidY          float64      `json:"centroid_y"`
	EquivalentDiameter float64      `json:"equivalent_diameter"`
	Circularity        float64      `json:"circularity"`
	PolygonCount       int          `json:"polygon_count"`
	Unit               string       `json:"unit"`
}

// MeasureSelection computes area, perimeter, bounds, centroid and derived
// shape descriptors for a selection. cal may be nil for uncalibrated images.
//
// The equivalent diameter is the diameter of a circle with the selection's
// area, 2*sqrt(A/pi). Circularity is 4*pi*A/P², 1.0 for a perfect circle and
// lower for elongated or ragged regions; rectilinear boundaries bias it
// slightly low.
func MeasureSelection(sel *wand.Selection, cal *wand.Calibration) *MeasureResult {
	areaPx := sel.Area()
	perimPx := sel.Perimeter()
	box := sel.Bounds()
	cx, cy := sel.Centroid()

	pw, ph := 1.0, 1.0
	unit := "pixel"
	if cal != nil && cal.PixelWidth > 0 && cal.PixelHeight > 0 {
		pw, ph = cal.PixelWidth, cal.PixelHeight
		if cal.Unit != "" {
			unit = cal.Unit
		}
	}

	area := float64(areaPx) * pw * ph
	// Perimeter spans are axis-aligned, so horizontal and vertical runs
	// scale independently.
	perim := 0.0
	for _, poly := range sel.Polygons() {
		n := len(poly.Points)
		for i := 0; i < n; i++ {
			a := poly.Points[i]
			b := poly.Points[(i+1)%n]
			perim += math.Abs(float64(b.X-a.X))*pw + math.Abs(float64(b.Y-a.Y))*ph
		}
	}

	circularity := 0.0
	if perim > 0 {
		circularity = 4 * math.Pi * area / (perim * perim)
	}

	return &MeasureResult{
		AreaPixels:         areaPx,
		Area:               round2(area),
		PerimeterPixels:    perimPx,
		Perimeter:          round2(perim),
		Bounds:             BoundsResult{X: box.Min.X, Y: box.Min.Y, Width: box.Dx(), Height: box.Dy()},
		CentroidX:          round2(cx * pw),
		CentroidY:          round2(cy * ph),
		EquivalentDiameter: round2(2 * math.Sqrt(area/math.Pi)),
		Circularity:        round2(circularity),
		PolygonCount:       len(sel.Polygons()),
		Unit:               unit,
	}
}

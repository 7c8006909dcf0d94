package wand

import (
	"fmt"
	"image"
	"image/color"
)

var gray255 = color.Gray{Y: 255}

// Selection is the result of one wand operation: a set of closed
// boundary polygons plus the pixel mask they enclose. Ownership passes
// to the caller; the grower keeps no reference after returning.
type Selection struct {
	width, height int
	polygons      []Polygon
	bits          []bool
}

func newSelection(w, h int, polys []Polygon, bits []bool) *Selection {
	return &Selection{width: w, height: h, polygons: polys, bits: bits}
}

// FromMask builds a Selection from a pixel mask, tracing all boundary
// loops (holes included). The mask length must be w*h.
func FromMask(bits []bool, w, h int) (*Selection, error) {
	if len(bits) != w*h {
		return nil, fmt.Errorf("wand: mask length %d does not match %dx%d", len(bits), w, h)
	}
	owned := make([]bool, len(bits))
	copy(owned, bits)
	return newSelection(w, h, traceAll(owned, w, h), owned), nil
}

// Width returns the mask width in pixels.
func (s *Selection) Width() int { return s.width }

// Height returns the mask height in pixels.
func (s *Selection) Height() int { return s.height }

// Polygons returns the boundary loops. Outer contours and hole contours
// wind in opposite directions.
func (s *Selection) Polygons() []Polygon { return s.polygons }

// Empty reports whether no pixel is selected.
func (s *Selection) Empty() bool { return len(s.polygons) == 0 }

// Contains reports whether pixel (x, y) is selected. Out-of-bounds
// coordinates are never selected.
func (s *Selection) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.width && y < s.height && s.bits[y*s.width+x]
}

// Area returns the number of selected pixels.
func (s *Selection) Area() int {
	n := 0
	for _, b := range s.bits {
		if b {
			n++
		}
	}
	return n
}

// Bounds returns the tight bounding rectangle of the selected pixels,
// or the zero rectangle for an empty selection.
func (s *Selection) Bounds() image.Rectangle {
	minX, minY := s.width, s.height
	maxX, maxY := -1, -1
	i := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.bits[i] {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
			i++
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Perimeter returns the total boundary length in pixels. Every polygon
// edge is axis-aligned, so the length is the sum of edge spans.
func (s *Selection) Perimeter() float64 {
	total := 0
	for _, poly := range s.polygons {
		n := len(poly.Points)
		for i := 0; i < n; i++ {
			a := poly.Points[i]
			b := poly.Points[(i+1)%n]
			total += abs(b.X-a.X) + abs(b.Y-a.Y)
		}
	}
	return float64(total)
}

// Centroid returns the mean position of selected pixel centers. For an
// empty selection both coordinates are zero.
func (s *Selection) Centroid() (cx, cy float64) {
	var sx, sy float64
	n := 0
	i := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.bits[i] {
				sx += float64(x) + 0.5
				sy += float64(y) + 0.5
				n++
			}
			i++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sx / float64(n), sy / float64(n)
}

// ToGray renders the mask as an 8-bit image with selected pixels at 255.
func (s *Selection) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.width, s.height))
	i := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.bits[i] {
				img.SetGray(x, y, gray255)
			}
			i++
		}
	}
	return img
}

// Union combines two selections over the same image, the shift-key
// behavior of the interactive wand. Boundaries are re-traced from the
// merged mask.
func (s *Selection) Union(o *Selection) (*Selection, error) {
	if err := s.compatible(o); err != nil {
		return nil, err
	}
	merged := make([]bool, len(s.bits))
	for i := range merged {
		merged[i] = s.bits[i] || o.bits[i]
	}
	return newSelection(s.width, s.height, traceAll(merged, s.width, s.height), merged), nil
}

// Subtract removes o's pixels from s, the alt-key behavior of the
// interactive wand.
func (s *Selection) Subtract(o *Selection) (*Selection, error) {
	if err := s.compatible(o); err != nil {
		return nil, err
	}
	remaining := make([]bool, len(s.bits))
	for i := range remaining {
		remaining[i] = s.bits[i] && !o.bits[i]
	}
	return newSelection(s.width, s.height, traceAll(remaining, s.width, s.height), remaining), nil
}

func (s *Selection) compatible(o *Selection) error {
	if s.width != o.width || s.height != o.height {
		return fmt.Errorf("wand: selection size %dx%d does not match %dx%d",
			o.width, o.height, s.width, s.height)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

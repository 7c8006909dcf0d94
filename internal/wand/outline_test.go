package wand

import (
	"reflect"
	"testing"
)

// maskOf builds a mask from rows of '#' (selected) and '.' characters.
func maskOf(t *testing.T, rows ...string) ([]bool, int, int) {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	bits := make([]bool, w*h)
	for y, row := range rows {
		if len(row) != w {
			t.Fatalf("row %d has length %d, want %d", y, len(row), w)
		}
		for x := 0; x < w; x++ {
			bits[y*w+x] = row[x] == '#'
		}
	}
	return bits, w, h
}

func TestTraceAll_SinglePixel(t *testing.T) {
	bits, w, h := maskOf(t,
		"...",
		".#.",
		"...",
	)
	polys := traceAll(bits, w, h)
	if len(polys) != 1 {
		t.Fatalf("loops: got %d, want 1", len(polys))
	}
	want := []Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}}
	if !reflect.DeepEqual(polys[0].Points, want) {
		t.Errorf("vertices: got %v, want %v", polys[0].Points, want)
	}
}

func TestTraceAll_Rectangle(t *testing.T) {
	bits, w, h := maskOf(t,
		".....",
		".###.",
		".###.",
		".....",
	)
	polys := traceAll(bits, w, h)
	if len(polys) != 1 {
		t.Fatalf("loops: got %d, want 1", len(polys))
	}
	if got := len(polys[0].Points); got != 4 {
		t.Errorf("vertices: got %d, want 4 for an axis-aligned rectangle", got)
	}
}

func TestTraceAll_RingHasTwoLoops(t *testing.T) {
	bits, w, h := maskOf(t,
		".....",
		".###.",
		".#.#.",
		".###.",
		".....",
	)
	polys := traceAll(bits, w, h)
	if len(polys) != 2 {
		t.Fatalf("loops: got %d, want 2 (outer contour and hole)", len(polys))
	}
}

func TestTraceAll_DiagonalPairIsOneLoop(t *testing.T) {
	// Pixels touching only at a corner trace as a single 8-connected
	// loop, matching the flood fill's widest connectivity.
	bits, w, h := maskOf(t,
		"#.",
		".#",
	)
	polys := traceAll(bits, w, h)
	if len(polys) != 1 {
		t.Fatalf("loops: got %d, want 1", len(polys))
	}
	if got := rasterize(polys, w, h); !reflect.DeepEqual(got, bits) {
		t.Errorf("rasterized mask differs: got %v, want %v", got, bits)
	}
}

func TestTraceOuter_SkipsHole(t *testing.T) {
	bits, w, h := maskOf(t,
		".....",
		".###.",
		".#.#.",
		".###.",
		".....",
	)
	outer, ok := traceOuter(bits, w, h, 0)
	if !ok {
		t.Fatal("traceOuter found nothing")
	}
	filled := rasterize([]Polygon{outer}, w, h)
	if !filled[2*w+2] {
		t.Error("hole pixel not filled by the outer contour")
	}
	for i, b := range bits {
		if b && !filled[i] {
			t.Fatalf("selected pixel %d missing from the outer fill", i)
		}
	}
}

func TestTraceOuter_EmptyMask(t *testing.T) {
	bits := make([]bool, 9)
	if _, ok := traceOuter(bits, 3, 3, 0); ok {
		t.Error("traceOuter reported a loop on an empty mask")
	}
}

func TestRasterize_RoundTrip(t *testing.T) {
	shapes := [][]string{
		{
			"#####",
			"#####",
			"#####",
		},
		{
			"..#..",
			".###.",
			"#####",
			".###.",
			"..#..",
		},
		{
			"##.##",
			"##.##",
			".....",
			"##.##",
		},
		{
			"####",
			"#..#",
			"#..#",
			"####",
		},
	}
	for i, rows := range shapes {
		bits, w, h := maskOf(t, rows...)
		polys := traceAll(bits, w, h)
		if got := rasterize(polys, w, h); !reflect.DeepEqual(got, bits) {
			t.Errorf("shape %d: rasterized mask differs from original", i)
		}
	}
}

func TestTraceAll_PixelsAtImageEdge(t *testing.T) {
	bits, w, h := maskOf(t,
		"##.",
		"#..",
		"..#",
	)
	polys := traceAll(bits, w, h)
	if len(polys) != 2 {
		t.Fatalf("loops: got %d, want 2", len(polys))
	}
	if got := rasterize(polys, w, h); !reflect.DeepEqual(got, bits) {
		t.Error("rasterized mask differs from original at image edges")
	}
}

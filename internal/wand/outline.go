package wand

import "sort"

// Point is an integer vertex on the pixel-corner lattice: the corner
// (x, y) is the top-left corner of pixel (x, y).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Polygon is a closed rectilinear loop of vertices; the final edge
// connects the last vertex back to the first. Outer boundaries and hole
// boundaries wind in opposite directions.
type Polygon struct {
	Points []Point `json:"points"`
}

// Boundary tracing follows "cracks" between pixels, keeping selected
// pixels on the right-hand side of the walking direction. Directions
// are indexed 0=right, 1=down, 2=left, 3=up.
var (
	crackDX = [4]int{1, 0, -1, 0}
	crackDY = [4]int{0, 1, 0, -1}
)

type maskGrid struct {
	bits []bool
	w, h int
}

func (m maskGrid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.w && y < m.h && m.bits[y*m.w+x]
}

// validCrack reports whether walking from corner (x, y) in direction d
// keeps a selected pixel on the right and an unselected one on the left.
func (m maskGrid) validCrack(x, y, d int) bool {
	switch d {
	case 0:
		return m.inside(x, y) && !m.inside(x, y-1)
	case 1:
		return m.inside(x-1, y) && !m.inside(x, y)
	case 2:
		return m.inside(x-1, y-1) && !m.inside(x-1, y)
	case 3:
		return m.inside(x, y-1) && !m.inside(x-1, y-1)
	}
	return false
}

// nextDir picks the outgoing direction at a corner, preferring the left
// turn so that regions touching only at a corner stay connected
// (8-connected tracing, matching the flood fill's widest mode).
func (m maskGrid) nextDir(x, y, dir int) int {
	for _, c := range [3]int{(dir + 3) & 3, dir, (dir + 1) & 3} {
		if m.validCrack(x, y, c) {
			return c
		}
	}
	return (dir + 2) & 3
}

// hcrackKey identifies the horizontal crack segment [x, x+1] at row y
// with orientation o (0 rightward, 1 leftward).
func hcrackKey(x, y, o, w int) int {
	return (y*w+x)*2 + o
}

// traceLoop walks one closed boundary loop starting from the crack at
// corner (sx, sy) heading in direction sdir, which must be valid.
// Every horizontal crack traversed is reported through mark. Vertices
// are recorded at direction changes.
func traceLoop(m maskGrid, sx, sy, sdir int, mark func(key int)) Polygon {
	pts := []Point{{X: sx, Y: sy}}
	x, y, dir := sx, sy, sdir
	for {
		switch dir {
		case 0:
			mark(hcrackKey(x, y, 0, m.w))
		case 2:
			mark(hcrackKey(x-1, y, 1, m.w))
		}
		x += crackDX[dir]
		y += crackDY[dir]
		next := m.nextDir(x, y, dir)
		if x == sx && y == sy && next == sdir {
			return Polygon{Points: pts}
		}
		if next != dir {
			pts = append(pts, Point{X: x, Y: y})
		}
		dir = next
	}
}

// traceOuter traces only the outer boundary of the mask, scanning row
// ymin (the topmost row containing a selected pixel) for its leftmost
// selected pixel. Returns false for an empty mask.
func traceOuter(bits []bool, w, h, ymin int) (Polygon, bool) {
	m := maskGrid{bits: bits, w: w, h: h}
	for y := ymin; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.inside(x, y) {
				return traceLoop(m, x, y, 0, func(int) {}), true
			}
		}
	}
	return Polygon{}, false
}

// traceAll traces every boundary loop of the mask, outer contours and
// holes alike, so the polygon set reproduces the mask topology exactly.
func traceAll(bits []bool, w, h int) []Polygon {
	m := maskGrid{bits: bits, w: w, h: h}
	visited := make(map[int]bool)
	var polys []Polygon
	mark := func(key int) { visited[key] = true }

	for y := 0; y <= h; y++ {
		for x := 0; x < w; x++ {
			below := m.inside(x, y)
			above := m.inside(x, y-1)
			switch {
			case below && !above:
				if !visited[hcrackKey(x, y, 0, w)] {
					polys = append(polys, traceLoop(m, x, y, 0, mark))
				}
			case above && !below:
				if !visited[hcrackKey(x, y, 1, w)] {
					polys = append(polys, traceLoop(m, x+1, y, 2, mark))
				}
			}
		}
	}
	return polys
}

// rasterize fills a polygon set into a pixel mask using the even-odd
// rule over vertical edge crossings. Because traced polygons are
// rectilinear crack loops, every row is crossed by an even number of
// vertical edges.
func rasterize(polys []Polygon, w, h int) []bool {
	crossings := make([][]int, h)
	for _, poly := range polys {
		n := len(poly.Points)
		for i := 0; i < n; i++ {
			a := poly.Points[i]
			b := poly.Points[(i+1)%n]
			if a.X != b.X {
				continue
			}
			y0, y1 := a.Y, b.Y
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			for y := y0; y < y1; y++ {
				if y >= 0 && y < h {
					crossings[y] = append(crossings[y], a.X)
				}
			}
		}
	}

	bits := make([]bool, w*h)
	for y, xs := range crossings {
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := xs[i]; x < xs[i+1] && x < w; x++ {
				if x >= 0 {
					bits[y*w+x] = true
				}
			}
		}
	}
	return bits
}

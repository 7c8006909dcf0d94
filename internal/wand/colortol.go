package wand

import "math"

// colorTolerance evaluates the RGB acceptance test for one grow
// operation. The weight vector selects the "parallel" (brightness-like)
// component of a color difference: the normalized reference color when
// hue matching is requested on a non-black reference, the luma weights
// otherwise.
type colorTolerance struct {
	r0, g0, b0  int
	wr, wg, wb  float64
	sensitivity float64
	tol2        float64
}

func newColorTolerance(r0, g0, b0 uint8, sensitivity, tolerance float64) colorTolerance {
	t := colorTolerance{
		r0:          int(r0),
		g0:          int(g0),
		b0:          int(b0),
		sensitivity: sensitivity,
		tol2:        tolerance * tolerance,
	}
	wr, wg, wb := float64(r0), float64(g0), float64(b0)
	if (r0 == 0 && g0 == 0 && b0 == 0) || sensitivity <= 0 {
		wr, wg, wb = lumaR, lumaG, lumaB
	}
	norm := 1 / math.Sqrt(wr*wr+wg*wg+wb*wb)
	t.wr = wr * norm
	t.wg = wg * norm
	t.wb = wb * norm
	return t
}

// accept reports whether the candidate triple lies within tolerance of
// the reference. At sensitivity 0 this is the plain Euclidean test; the
// weighting of the parallel and perpendicular squared components is
//
//	parallel + (1+s)*perpendicular   for s < 0
//	(1-s)*parallel + perpendicular   for s > 0
//
// both of which reduce to parallel + perpendicular at s = 0.
func (t colorTolerance) accept(r, g, b uint8) bool {
	dr := int(r) - t.r0
	dg := int(g) - t.g0
	db := int(b) - t.b0
	d2 := float64(dr*dr + dg*dg + db*db)
	if t.sensitivity == 0 {
		return d2 <= t.tol2
	}
	dpar := float64(dr)*t.wr + float64(dg)*t.wg + float64(db)*t.wb
	dpar2 := dpar * dpar
	if t.sensitivity < 0 {
		return d2*(1+t.sensitivity)-dpar2*t.sensitivity <= t.tol2
	}
	return d2-dpar2*t.sensitivity <= t.tol2
}

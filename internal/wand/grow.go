package wand

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotInThresholdedArea reports that the reference sample fell outside
// its own acceptance band; no mask is built and no region is returned.
// This is the library equivalent of the host's "beep and status message".
var ErrNotInThresholdedArea = errors.New("wand: reference pixel not in thresholded area")

// Monitor receives progress as a fraction of total pixels. It is called
// every 4096 dequeues and once with 1.0 on completion; a nil Monitor is
// allowed.
type Monitor func(fraction float64)

// Mask labels. A pixel transitions Unknown -> Inside or Unknown ->
// Outside exactly once; neither label is ever revisited.
const (
	maskUnknown int8 = 0
	maskOutside int8 = 1
	maskInside  int8 = -1
)

// Neighbor direction tables, clockwise from north. Even indices are
// axis-aligned, odd indices diagonal.
var (
	dirX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	dirY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
)

// progressInterval is the dequeue mask between progress reports and
// cancellation checks.
const progressInterval = 0xfff

// Grow runs one wand operation: it grows a region from the seed pixel
// under the given tolerance parameters and converts the resulting mask
// to a polygonal Selection.
//
// The context is checked cooperatively at fixed dequeue intervals; on
// cancellation Grow returns ctx.Err() and no selection. The source and
// params are not retained after return.
func Grow(ctx context.Context, src Source, seedX, seedY int, p Params, monitor Monitor) (*Selection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	width, height := src.Width(), src.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wand: empty image (%dx%d)", width, height)
	}
	if seedX < 0 || seedX >= width || seedY < 0 || seedY >= height {
		return nil, fmt.Errorf("wand: seed (%d,%d) outside %dx%d image", seedX, seedY, width, height)
	}

	// Reference value and acceptance band. With an active binarization
	// band the tolerance is ignored for banding; the guard below rejects
	// seeds (or eyedropper values) outside the band.
	var grayRef float32
	if p.UseEyedropper {
		grayRef = resolveValue(src, p)
	} else {
		grayRef = src.ValueAt(seedX, seedY)
	}
	band, thresholded := src.Threshold()
	if !thresholded {
		band = Band{
			Low:  float64(grayRef) - p.ValueTolerance,
			High: float64(grayRef) + p.ValueTolerance,
		}
	}
	if !band.Contains(float64(grayRef)) {
		return nil, ErrNotInThresholdedArea
	}

	// Color mode applies to RGB sources unless the sensitivity slider
	// sits at its brightness-only extreme.
	rgbSrc, isRGB := src.(RGBSource)
	colorMode := isRGB && p.ColorSensitivity > -1
	var colorTol colorTolerance
	if colorMode {
		var r0, g0, b0 uint8
		if p.UseEyedropper {
			r, g, b, _ := p.Foreground.RGBA()
			r0, g0, b0 = uint8(r>>8), uint8(g>>8), uint8(b>>8)
		} else {
			r0, g0, b0 = rgbSrc.RGBAt(seedX, seedY)
		}
		colorTol = newColorTolerance(r0, g0, b0, p.ColorSensitivity, p.ValueTolerance)
	}

	// Gradient gating. A spatial calibration converts the tolerance to
	// per-pixel units and scales the y-component for anisotropic pixels.
	useGradient := p.GradientTolerance > 0 &&
		p.GradientTolerance < p.ValueTolerance &&
		p.Connectivity != NonContiguous
	gradTol := p.GradientTolerance
	aspectSqr := 1.0
	if cal := src.Calibration(); cal != nil && cal.PixelWidth > 0 && cal.PixelHeight > 0 {
		gradTol *= cal.PixelWidth
		a := cal.PixelWidth / cal.PixelHeight
		aspectSqr = a * a
	}
	gradTol2 := float32(gradTol * gradTol)
	aspect := float32(aspectSqr)

	mask := make([]int8, width*height)
	ymin := seedY

	if p.Connectivity == NonContiguous {
		if colorMode {
			i := 0
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					r, g, b := rgbSrc.RGBAt(x, y)
					if colorTol.accept(r, g, b) {
						mask[i] = maskInside
					}
					i++
				}
			}
		} else {
			i := 0
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					if band.Contains(float64(src.ValueAt(x, y))) {
						mask[i] = maskInside
					}
					i++
				}
			}
		}
	} else {
		dirOffset := [8]int{-width, -width + 1, 1, width + 1, width, width - 1, -1, -width - 1}
		step := 1
		if p.Connectivity == FourConnected {
			step = 2
		}
		total := width * height

		queue := newFrontier()
		seedOffset := seedY*width + seedX
		mask[seedOffset] = maskInside
		queue.push(seedOffset)

		dequeued := 0
		for !queue.empty() {
			offset := queue.pop()
			dequeued++
			x := offset % width
			y := offset / width
			inner := x > 0 && y > 0 && x < width-1 && y < height-1
			v := src.ValueAt(x, y)

			largeGradient := false
			var gx, gy float32
			if useGradient {
				gx, gy = gradientAt(src, x, y, inner, v)
				largeGradient = gx*gx+gy*gy*aspect > gradTol2
			}

			for d := 0; d < 8; d += step {
				if !inner && !neighborInImage(x, y, d, width, height) {
					continue
				}
				offset2 := offset + dirOffset[d]
				if mask[offset2] != maskUnknown {
					continue
				}
				x2, y2 := x+dirX[d], y+dirY[d]
				var ok bool
				if colorMode {
					r, g, b := rgbSrc.RGBAt(x2, y2)
					ok = colorTol.accept(r, g, b)
				} else {
					ok = band.Contains(float64(src.ValueAt(x2, y2)))
				}
				if !ok {
					mask[offset2] = maskOutside
					continue
				}
				if largeGradient {
					// Admit only downhill moves: the gradient must not
					// point toward the neighbor.
					v2 := src.ValueAt(x2, y2)
					if (v2-v)*(gx*float32(dirX[d])+gy*float32(dirY[d])) > 0 {
						mask[offset2] = maskOutside
						continue
					}
				}
				mask[offset2] = maskInside
				if y2 < ymin {
					ymin = y2
				}
				queue.push(offset2)
			}

			if dequeued&progressInterval == 1 {
				if monitor != nil {
					monitor(float64(dequeued) / float64(total))
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
		}
	}
	if monitor != nil {
		monitor(1.0)
	}

	bits := make([]bool, width*height)
	for i, m := range mask {
		bits[i] = m == maskInside
	}

	if p.IncludeHoles && p.Connectivity != NonContiguous {
		// Tracing starts on the topmost selected row, which is
		// guaranteed background-adjacent and therefore on the outer
		// contour; rasterizing that single loop fills interior holes.
		outer, ok := traceOuter(bits, width, height, ymin)
		if !ok {
			return newSelection(width, height, nil, bits), nil
		}
		polys := []Polygon{outer}
		return newSelection(width, height, polys, rasterize(polys, width, height)), nil
	}
	return newSelection(width, height, traceAll(bits, width, height), bits), nil
}

// resolveValue maps the eyedropper color into the source's value space,
// honoring the source's calibration table when it has one.
func resolveValue(src Source, p Params) float32 {
	if r, ok := src.(valueResolver); ok {
		return r.ResolveValue(p.Foreground)
	}
	r, g, b, _ := p.Foreground.RGBA()
	return float32(luma8(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

// gradientAt estimates the local value gradient at (x, y). Interior
// pixels use a Sobel-like 3x3 kernel; border pixels fall back to a
// finite-difference average over the in-image neighbors, weighting
// axis-aligned neighbors twice as much as diagonal ones.
func gradientAt(src Source, x, y int, inner bool, v float32) (gx, gy float32) {
	if inner {
		vpp := src.ValueAt(x+1, y+1)
		vpm := src.ValueAt(x+1, y-1)
		vmp := src.ValueAt(x-1, y+1)
		vmm := src.ValueAt(x-1, y-1)
		gx = 0.125 * (2*(src.ValueAt(x+1, y)-src.ValueAt(x-1, y)) + vpp - vmm + (vpm - vmp))
		gy = 0.125 * (2*(src.ValueAt(x, y+1)-src.ValueAt(x, y-1)) + vpp - vmm - (vpm - vmp))
		return gx, gy
	}
	width, height := src.Width(), src.Height()
	var xCount, yCount float32
	for d := 0; d < 8; d++ {
		if !neighborInImage(x, y, d, width, height) {
			continue
		}
		v2 := src.ValueAt(x+dirX[d], y+dirY[d])
		w := float32(2 - d&1) // 2 for straight, 1 for diagonal
		gx += float32(dirX[d]) * (v2 - v) * w
		gy += float32(dirY[d]) * (v2 - v) * w
		if dirX[d] != 0 {
			xCount += w
		}
		if dirY[d] != 0 {
			yCount += w
		}
	}
	if xCount > 0 {
		gx /= xCount
	}
	if yCount > 0 {
		gy /= yCount
	}
	return gx, gy
}

// neighborInImage reports whether the neighbor of (x, y) in direction d
// lies inside the image. (x, y) itself is assumed in bounds.
func neighborInImage(x, y, d, width, height int) bool {
	switch d {
	case 0:
		return y > 0
	case 1:
		return x < width-1 && y > 0
	case 2:
		return x < width-1
	case 3:
		return x < width-1 && y < height-1
	case 4:
		return y < height-1
	case 5:
		return x > 0 && y < height-1
	case 6:
		return x > 0
	case 7:
		return x > 0 && y > 0
	}
	return false
}

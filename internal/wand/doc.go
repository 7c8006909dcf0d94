// Package wand implements a versatile magic-wand region grower for 2-D
// micrographs: a tolerance- and gradient-bounded flood fill that turns a
// single seed pixel into a polygonal selection.
//
// The entry point is Grow, which consumes a pixel Source, a seed
// coordinate and an immutable Params value, and produces a Selection
// (polygon boundaries plus a pixel mask). All per-operation state (the
// tri-state mask, the frontier queue, progress counters) is owned by one
// Grow call and discarded at return.
//
// # Tolerance Modes
//
// For grayscale sources the acceptance test is a [low, high] band around
// the reference value (or the image's existing binarization band, when
// one is active). For RGB sources with ColorSensitivity > -1 the test is
// a weighted distance in RGB space that interpolates continuously between
// brightness-only (-1), plain Euclidean (0) and hue-only (+1) matching.
//
// # Gradient Gating
//
// When 0 < GradientTolerance < ValueTolerance and the connectivity is
// contiguous, growth across locally steep value transitions is
// suppressed: a neighbor of a large-gradient pixel is admitted only when
// the step toward it runs downhill relative to the local gradient.
//
// # Connectivity
//
// EightConnected and FourConnected perform a FIFO flood fill from the
// seed; NonContiguous labels every matching pixel of the image in a
// single flat scan, ignoring gradient gating and hole inclusion.
//
// # Errors
//
// Grow returns ErrNotInThresholdedArea when the reference value falls
// outside its own acceptance band (a reported, non-fatal condition), and
// the context error when cooperatively cancelled mid-traversal. Seed
// coordinates outside the image are a caller bug and fail fast.
package wand

package wand

import (
	"fmt"
	"image/color"
)

// Connectivity selects how the region grower traverses neighbors.
type Connectivity int

const (
	// EightConnected grows into neighbors sharing a side or a corner.
	EightConnected Connectivity = iota
	// FourConnected grows only into neighbors sharing a side.
	FourConnected
	// NonContiguous selects every matching pixel of the image,
	// irrespective of adjacency. Gradient gating and hole inclusion are
	// ignored in this mode.
	NonContiguous
)

// String returns the canonical spelling used in config files and tool
// arguments.
func (c Connectivity) String() string {
	switch c {
	case EightConnected:
		return "8-connected"
	case FourConnected:
		return "4-connected"
	case NonContiguous:
		return "non-contiguous"
	}
	return fmt.Sprintf("Connectivity(%d)", int(c))
}

// ParseConnectivity converts a config/tool string to a Connectivity.
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "8-connected", "":
		return EightConnected, nil
	case "4-connected":
		return FourConnected, nil
	case "non-contiguous":
		return NonContiguous, nil
	}
	return 0, fmt.Errorf("wand: unknown connectivity %q", s)
}

// Params holds the tolerance settings for one grow operation. The value
// is immutable per invocation; no state is shared across calls.
type Params struct {
	// ValueTolerance is the maximum allowed absolute difference from the
	// reference sample value (grayscale), or the radius in RGB-tolerance
	// space (color mode). Must be >= 0.
	ValueTolerance float64

	// ColorSensitivity blends between brightness-only matching (-1),
	// plain Euclidean RGB distance (0) and hue-only matching (+1).
	// Only meaningful for RGB sources; at exactly -1 the color test is
	// bypassed entirely in favor of the grayscale band.
	ColorSensitivity float64

	// GradientTolerance is the maximum allowed local gradient magnitude,
	// in calibrated units per length unit. Zero disables gradient
	// gating; gating is also inactive unless the tolerance is below
	// ValueTolerance and the connectivity is contiguous.
	GradientTolerance float64

	Connectivity Connectivity

	// IncludeHoles removes interior holes from the output region by
	// tracing only its outer contour. Ignored for NonContiguous.
	IncludeHoles bool

	// UseEyedropper takes the reference value/color from Foreground
	// instead of the seed pixel. The seed itself is still forced into
	// the region in contiguous modes.
	UseEyedropper bool

	// Foreground is the externally supplied eyedropper color. Required
	// when UseEyedropper is set.
	Foreground color.Color
}

// Validate checks the parameter ranges before a grow operation.
func (p Params) Validate() error {
	if p.ValueTolerance < 0 {
		return fmt.Errorf("wand: value tolerance %g < 0", p.ValueTolerance)
	}
	if p.ColorSensitivity < -1 || p.ColorSensitivity > 1 {
		return fmt.Errorf("wand: color sensitivity %g outside [-1, 1]", p.ColorSensitivity)
	}
	if p.GradientTolerance < 0 {
		return fmt.Errorf("wand: gradient tolerance %g < 0", p.GradientTolerance)
	}
	switch p.Connectivity {
	case EightConnected, FourConnected, NonContiguous:
	default:
		return fmt.Errorf("wand: invalid connectivity %d", int(p.Connectivity))
	}
	if p.UseEyedropper && p.Foreground == nil {
		return fmt.Errorf("wand: eyedropper mode requires a foreground color")
	}
	return nil
}

package stimulus

import (
	"errors"
	"fmt"
)

// DefaultCanvasSize is the square canvas edge in pixels. It matches the fixed
// resolution the feature extractor was calibrated against; both figure families
// must render at the same size for their descriptors to be comparable.
const DefaultCanvasSize = 256

const (
	// strokeWidth is the rendered stroke thickness in pixels.
	strokeWidth = 2.0

	// boundsMargin keeps stroke endpoints clear of the canvas edge, covering the
	// stroke half-width plus the anti-aliasing fringe.
	boundsMargin = 2.0
)

// ErrInvalidGeometry reports a Spec that cannot be rendered without placing
// strokes outside the canvas or that is otherwise geometrically malformed.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Family selects the figure family to render.
type Family int

const (
	// FamilyControl renders cross-fin control figures (veridical caps).
	FamilyControl Family = iota

	// FamilyMullerLyer renders arrowhead figures (the classic illusion).
	FamilyMullerLyer
)

// String returns the short family code used in manifests and reports.
func (f Family) String() string {
	switch f {
	case FamilyControl:
		return "CF"
	case FamilyMullerLyer:
		return "ML"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// FinDirection selects which way a Müller-Lyer arrowhead opens. It is ignored
// for control figures, whose cross fins are symmetric.
type FinDirection int

const (
	// FinsOutward extends the heads past the shaft ends (wings-out).
	FinsOutward FinDirection = iota

	// FinsInward folds the heads back over the shaft (wings-in).
	FinsInward
)

// String returns "out" or "in".
func (d FinDirection) String() string {
	if d == FinsInward {
		return "in"
	}
	return "out"
}

// Label is the binary ground truth: which shaft is objectively longer.
type Label int

const (
	// TopLonger marks figures whose upper shaft is the longer one.
	TopLonger Label = iota

	// BottomLonger marks figures whose lower shaft is the longer one.
	BottomLonger
)

// String returns "top" or "bottom".
func (l Label) String() string {
	if l == BottomLonger {
		return "bottom"
	}
	return "top"
}

// Spec is the immutable parameter record for one figure. All distances are in
// pixels and all angles in degrees.
type Spec struct {
	// Family selects control (cross fins) or Müller-Lyer (arrowheads).
	Family Family

	// TopLength and BottomLength are the two shaft lengths. They must be
	// positive and distinct; equal shafts have no objective label.
	TopLength    float64
	BottomLength float64

	// FinAngleDeg is the fin angle measured from the vertical, in the open
	// interval (0, 180). 90 lays the fins along the shaft axis.
	FinAngleDeg float64

	// FinLength is the length of each fin stroke.
	FinLength float64

	// Separation is the vertical distance between the two shafts.
	Separation float64

	// TopDir and BottomDir are the arrowhead directions per shaft. Only
	// consulted for FamilyMullerLyer.
	TopDir    FinDirection
	BottomDir FinDirection

	// VerticalOffset shifts the shaft pair's vertical midpoint away from the
	// canvas center. Used for placement jitter.
	VerticalOffset float64

	// CanvasSize is the square canvas edge. Zero means DefaultCanvasSize.
	CanvasSize int
}

// Label returns the ground-truth label implied by the shaft lengths.
func (s Spec) Label() Label {
	if s.BottomLength > s.TopLength {
		return BottomLonger
	}
	return TopLonger
}

func (s Spec) canvas() int {
	if s.CanvasSize > 0 {
		return s.CanvasSize
	}
	return DefaultCanvasSize
}

// Validate checks that the Spec is renderable: positive dimensions, a fin angle
// inside (0, 180), distinct shaft lengths, and every stroke endpoint (shaft ends
// plus all fin tips) strictly inside the canvas.
//
// Validation failures wrap ErrInvalidGeometry and identify the offending value.
// A failing Spec is rejected outright; silently clipping it would feed distorted
// figures into the accuracy statistics.
func (s Spec) Validate() error {
	if s.TopLength <= 0 || s.BottomLength <= 0 {
		return fmt.Errorf("%w: shaft lengths must be positive (top=%.1f bottom=%.1f)",
			ErrInvalidGeometry, s.TopLength, s.BottomLength)
	}
	if s.TopLength == s.BottomLength {
		return fmt.Errorf("%w: equal shaft lengths (%.1f) have no objective label",
			ErrInvalidGeometry, s.TopLength)
	}
	if s.FinAngleDeg <= 0 || s.FinAngleDeg >= 180 {
		return fmt.Errorf("%w: fin angle %.1f° outside (0, 180)", ErrInvalidGeometry, s.FinAngleDeg)
	}
	if s.FinLength <= 0 {
		return fmt.Errorf("%w: fin length must be positive (got %.1f)", ErrInvalidGeometry, s.FinLength)
	}
	if s.Separation <= 0 {
		return fmt.Errorf("%w: separation must be positive (got %.1f)", ErrInvalidGeometry, s.Separation)
	}

	size := float64(s.canvas())
	for _, seg := range s.strokes() {
		for _, p := range []point{seg.a, seg.b} {
			if p.x < boundsMargin || p.x > size-boundsMargin ||
				p.y < boundsMargin || p.y > size-boundsMargin {
				return fmt.Errorf("%w: stroke endpoint (%.1f, %.1f) outside canvas %dx%d",
					ErrInvalidGeometry, p.x, p.y, s.canvas(), s.canvas())
			}
		}
	}
	return nil
}

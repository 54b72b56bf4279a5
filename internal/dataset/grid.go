package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// ErrInvalidConfiguration reports a malformed parameter grid or experiment
// configuration. It is always raised before any image generation begins.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DirectionMode controls how arrowhead directions are assigned across the two
// segments of a Müller-Lyer figure.
type DirectionMode int

const (
	// DirectionUniform gives both segments the same arrowhead direction. The
	// shared direction alternates deterministically across the enumeration so
	// both wings-out and wings-in figures appear.
	DirectionUniform DirectionMode = iota

	// DirectionOpposite pairs one wings-out segment with one wings-in segment.
	// The objectively longer shaft receives the wings-in heads, so the illusion
	// works against the true answer at full strength.
	DirectionOpposite
)

// String returns "uniform" or "opposite".
func (m DirectionMode) String() string {
	if m == DirectionOpposite {
		return "opposite"
	}
	return "uniform"
}

// Grid is the parameter sweep for one dataset. Each slice lists the values of
// one stimulus dimension; Build takes their cartesian product.
type Grid struct {
	// Family selects the figure family for every figure in the dataset.
	Family stimulus.Family

	// ShaftLengths are the candidate shaft lengths in pixels. Figures use
	// ordered pairs of distinct values, so every figure has an objective label.
	ShaftLengths []float64

	// FinAngles are fin angles in degrees from the vertical, each in (0, 180).
	FinAngles []float64

	// FinLengths are fin stroke lengths in pixels.
	FinLengths []float64

	// Separations are vertical shaft separations in pixels.
	Separations []float64

	// Direction is the arrowhead assignment mode (Müller-Lyer only).
	Direction DirectionMode

	// Repeats renders each combination this many times with fresh vertical
	// jitter. Must be at least 1.
	Repeats int

	// Jitter is the maximum absolute vertical offset applied to the shaft
	// pair, in pixels. Zero disables jitter.
	Jitter float64

	// Seed drives jitter and the train/test shuffle.
	Seed int64

	// TrainRatio is the train fraction of the split, in (0, 1).
	TrainRatio float64

	// CanvasSize overrides the default canvas edge when positive.
	CanvasSize int
}

// Validate checks the grid before any rendering. Every dimension must be
// non-empty, the ratio inside (0, 1), repeats at least 1, and jitter
// non-negative. Failures wrap ErrInvalidConfiguration and name the offending
// dimension.
func (g Grid) Validate() error {
	dims := []struct {
		name string
		n    int
	}{
		{"shaft_length", len(g.ShaftLengths)},
		{"fin_angle", len(g.FinAngles)},
		{"fin_length", len(g.FinLengths)},
		{"separation", len(g.Separations)},
	}
	for _, d := range dims {
		if d.n == 0 {
			return fmt.Errorf("%w: dimension %q is empty", ErrInvalidConfiguration, d.name)
		}
	}
	if len(g.ShaftLengths) < 2 {
		return fmt.Errorf("%w: shaft_length needs at least two distinct values to form labeled pairs",
			ErrInvalidConfiguration)
	}
	if g.Repeats < 1 {
		return fmt.Errorf("%w: repeats must be at least 1 (got %d)", ErrInvalidConfiguration, g.Repeats)
	}
	if g.Jitter < 0 {
		return fmt.Errorf("%w: jitter must be non-negative (got %.1f)", ErrInvalidConfiguration, g.Jitter)
	}
	if g.TrainRatio <= 0 || g.TrainRatio >= 1 {
		return fmt.Errorf("%w: train_test_ratio %.2f outside (0, 1)", ErrInvalidConfiguration, g.TrainRatio)
	}
	return nil
}

// Specs materializes the cartesian product into an ordered list of stimulus
// specs.
//
// The enumeration order is fixed: length pair (outer), fin angle, fin length,
// separation, repeat (inner). Length pairs are the ordered pairs of distinct
// values from ShaftLengths, so both label classes appear symmetrically and
// duplicates across repeats are intentional for statistical averaging.
//
// Jitter offsets are drawn from a rand.Rand seeded with Grid.Seed, so the
// output is reproducible for a fixed grid.
func (g Grid) Specs() ([]stimulus.Spec, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.Seed))
	var specs []stimulus.Spec
	uniformFlip := false

	for _, top := range g.ShaftLengths {
		for _, bottom := range g.ShaftLengths {
			if top == bottom {
				continue
			}
			for _, angle := range g.FinAngles {
				for _, finLen := range g.FinLengths {
					for _, sep := range g.Separations {
						for r := 0; r < g.Repeats; r++ {
							var offset float64
							if g.Jitter > 0 {
								offset = (rng.Float64()*2 - 1) * g.Jitter
							}

							spec := stimulus.Spec{
								Family:         g.Family,
								TopLength:      top,
								BottomLength:   bottom,
								FinAngleDeg:    angle,
								FinLength:      finLen,
								Separation:     sep,
								VerticalOffset: offset,
								CanvasSize:     g.CanvasSize,
							}
							if g.Family == stimulus.FamilyMullerLyer {
								spec.TopDir, spec.BottomDir = g.directions(top, bottom, uniformFlip)
								uniformFlip = !uniformFlip
							}
							specs = append(specs, spec)
						}
					}
				}
			}
		}
	}
	return specs, nil
}

// directions assigns per-segment arrowhead directions for one figure.
func (g Grid) directions(top, bottom float64, flip bool) (stimulus.FinDirection, stimulus.FinDirection) {
	if g.Direction == DirectionOpposite {
		// Wings-in on the longer shaft makes it appear shorter: the illusion
		// contradicts the ground truth.
		if top > bottom {
			return stimulus.FinsInward, stimulus.FinsOutward
		}
		return stimulus.FinsOutward, stimulus.FinsInward
	}
	if flip {
		return stimulus.FinsInward, stimulus.FinsInward
	}
	return stimulus.FinsOutward, stimulus.FinsOutward
}

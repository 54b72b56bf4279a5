package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/perceptionlab/illusionbench/internal/dataset"
	"github.com/perceptionlab/illusionbench/internal/eval"
	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// Experiment is one experiment configuration file. Slice fields list the
// values swept per dimension; the grid is their cartesian product.
type Experiment struct {
	// Family is "CF" (control) or "ML" (Müller-Lyer).
	Family string `json:"family"`

	// FinAngle lists fin angles in degrees from the vertical.
	FinAngle []float64 `json:"fin_angle"`

	// FinLength lists fin stroke lengths in pixels.
	FinLength []float64 `json:"fin_length"`

	// ShaftLength lists candidate shaft lengths; figures pair distinct values.
	ShaftLength []float64 `json:"shaft_length"`

	// Separation lists vertical shaft separations in pixels.
	Separation []float64 `json:"separation"`

	// ArrowDirection is "uniform" or "opposite" (ML only; ignored for CF).
	ArrowDirection string `json:"arrow_direction"`

	// Seed drives jitter and the train/test shuffle.
	Seed int64 `json:"seed"`

	// TrainTestRatio is the train fraction, in (0, 1).
	TrainTestRatio float64 `json:"train_test_ratio"`

	// Repeats renders each grid combination this many times. Defaults to 1.
	Repeats int `json:"repeats"`

	// Jitter is the maximum vertical placement offset in pixels.
	Jitter float64 `json:"jitter"`

	// SliceBy lists the dimensions to slice evaluation by. Defaults to
	// fin_angle when empty.
	SliceBy []string `json:"slice_by"`
}

// Load reads and validates an experiment file. Unknown JSON fields and
// malformed values are ErrInvalidConfiguration.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var e Experiment
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dataset.ErrInvalidConfiguration, path, err)
	}

	if _, err := e.Grid(); err != nil {
		return nil, err
	}
	if _, err := e.Dimensions(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Grid translates the configuration into a dataset grid, validating every
// option. Defaults: repeats 1.
func (e *Experiment) Grid() (dataset.Grid, error) {
	g := dataset.Grid{
		ShaftLengths: e.ShaftLength,
		FinAngles:    e.FinAngle,
		FinLengths:   e.FinLength,
		Separations:  e.Separation,
		Seed:         e.Seed,
		TrainRatio:   e.TrainTestRatio,
		Repeats:      e.Repeats,
		Jitter:       e.Jitter,
	}
	if g.Repeats == 0 {
		g.Repeats = 1
	}

	switch e.Family {
	case "CF":
		g.Family = stimulus.FamilyControl
	case "ML":
		g.Family = stimulus.FamilyMullerLyer
	default:
		return g, fmt.Errorf("%w: family must be CF or ML (got %q)",
			dataset.ErrInvalidConfiguration, e.Family)
	}

	switch e.ArrowDirection {
	case "", "uniform":
		g.Direction = dataset.DirectionUniform
	case "opposite":
		g.Direction = dataset.DirectionOpposite
	default:
		return g, fmt.Errorf("%w: arrow_direction must be uniform or opposite (got %q)",
			dataset.ErrInvalidConfiguration, e.ArrowDirection)
	}

	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}

// Dimensions resolves the slice_by names. Defaults to fin_angle when the list
// is empty.
func (e *Experiment) Dimensions() ([]eval.Dimension, error) {
	if len(e.SliceBy) == 0 {
		return []eval.Dimension{eval.ByFinAngle}, nil
	}

	dims := make([]eval.Dimension, 0, len(e.SliceBy))
	for _, name := range e.SliceBy {
		d, err := eval.ParseDimension(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dataset.ErrInvalidConfiguration, err)
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// Values returns the configured sweep values for a numeric dimension, used to
// request explicit evaluation slices so unpopulated values surface as
// undefined records.
func (e *Experiment) Values(d eval.Dimension) []float64 {
	switch d {
	case eval.ByFinAngle:
		return e.FinAngle
	case eval.ByFinLength:
		return e.FinLength
	case eval.ByShaftLength:
		return nil // shaft slices use pair means, which are data-derived
	case eval.BySeparation:
		return e.Separation
	default:
		return nil
	}
}

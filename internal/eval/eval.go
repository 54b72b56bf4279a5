package eval

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/perceptionlab/illusionbench/internal/dataset"
	"github.com/perceptionlab/illusionbench/internal/features"
	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// ErrEmptySlice marks an evaluation slice with zero samples. It is reported,
// not fatal: callers log it and the record stays in the output as undefined.
var ErrEmptySlice = errors.New("empty evaluation slice")

// Predictor maps a descriptor to a length judgment. *classifier.Linear
// satisfies it.
type Predictor interface {
	Predict(desc []float64) stimulus.Label
}

// Dimension selects which stimulus parameter to slice accuracy by.
type Dimension int

const (
	ByFinAngle Dimension = iota
	ByFinLength
	ByShaftLength
	BySeparation
	ByDirection
)

// String returns the parameter name used in configs and report keys.
func (d Dimension) String() string {
	switch d {
	case ByFinAngle:
		return "fin_angle"
	case ByFinLength:
		return "fin_length"
	case ByShaftLength:
		return "shaft_length"
	case BySeparation:
		return "separation"
	case ByDirection:
		return "arrow_direction"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// ParseDimension maps a parameter name from a config file to its Dimension.
func ParseDimension(name string) (Dimension, error) {
	switch name {
	case "fin_angle":
		return ByFinAngle, nil
	case "fin_length":
		return ByFinLength, nil
	case "shaft_length":
		return ByShaftLength, nil
	case "separation":
		return BySeparation, nil
	case "arrow_direction":
		return ByDirection, nil
	default:
		return 0, fmt.Errorf("unknown slice dimension %q", name)
	}
}

// AccuracyRecord is one evaluation slice: the parameter and value it covers,
// how many samples fell into it, and the fraction answered correctly.
//
// Accuracy is meaningful only when Defined is true. Undefined records (zero
// samples) carry NaN accuracy so downstream tooling cannot mistake them for a
// measured zero.
type AccuracyRecord struct {
	Parameter string  `json:"parameter"`
	Value     string  `json:"value"`
	Samples   int     `json:"samples"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
	Defined   bool    `json:"defined"`
}

// Result is the ordered output of one evaluation: a record per slice value
// plus the overall aggregate across all test samples.
type Result struct {
	Parameter string           `json:"parameter"`
	Records   []AccuracyRecord `json:"records"`
	Overall   AccuracyRecord   `json:"overall"`
}

// sliceValue computes a spec's key along one dimension. Shaft length uses the
// mean of the two shafts, since the sweep varies them as a pair.
func sliceValue(s stimulus.Spec, d Dimension) string {
	switch d {
	case ByFinAngle:
		return formatValue(s.FinAngleDeg)
	case ByFinLength:
		return formatValue(s.FinLength)
	case ByShaftLength:
		return formatValue((s.TopLength + s.BottomLength) / 2)
	case BySeparation:
		return formatValue(s.Separation)
	case ByDirection:
		if s.TopDir != s.BottomDir {
			return "opposite"
		}
		return "uniform-" + s.TopDir.String()
	default:
		return ""
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// sliceCounts accumulates outcomes for one slice.
type sliceCounts struct {
	samples int
	correct int
}

// Evaluate runs the predictor over the dataset's test partition and groups
// accuracy by the requested dimension.
//
// Test images are processed in partition order; grouping is order-independent,
// so any upstream parallel descriptor computation only needs to restore index
// order before calling Evaluate. Records are sorted by numeric slice value
// (lexically for non-numeric values such as arrow direction).
func Evaluate(p Predictor, ex features.Extractor, ds *dataset.Dataset, dim Dimension) (*Result, error) {
	if len(ds.Test) == 0 {
		return nil, fmt.Errorf("dataset has no test partition")
	}

	groups := make(map[string]*sliceCounts)
	indicators := make([]float64, 0, len(ds.Test))
	correctTotal := 0

	for _, idx := range ds.Test {
		img := ds.Images[idx]
		desc, err := ex.Extract(img.Image)
		if err != nil {
			return nil, fmt.Errorf("extracting test image %d: %w", idx, err)
		}

		correct := p.Predict(desc) == img.Label
		if correct {
			indicators = append(indicators, 1)
			correctTotal++
		} else {
			indicators = append(indicators, 0)
		}

		key := sliceValue(img.Spec, dim)
		c := groups[key]
		if c == nil {
			c = &sliceCounts{}
			groups[key] = c
		}
		c.samples++
		if correct {
			c.correct++
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sortSliceKeys(keys)

	result := &Result{Parameter: dim.String()}
	for _, k := range keys {
		c := groups[k]
		result.Records = append(result.Records, AccuracyRecord{
			Parameter: dim.String(),
			Value:     k,
			Samples:   c.samples,
			Correct:   c.correct,
			Accuracy:  float64(c.correct) / float64(c.samples),
			Defined:   true,
		})
	}

	result.Overall = AccuracyRecord{
		Parameter: dim.String(),
		Value:     "overall",
		Samples:   len(indicators),
		Correct:   correctTotal,
		Accuracy:  stat.Mean(indicators, nil),
		Defined:   true,
	}
	return result, nil
}

// EvaluateAt evaluates accuracy at an explicit list of requested slice values
// along a numeric dimension.
//
// Unlike Evaluate, which reports only observed values, EvaluateAt emits one
// record per requested value in the given order. A requested value with no
// matching test samples produces an undefined record (NaN accuracy) and an
// ErrEmptySlice log line; the run continues.
func EvaluateAt(p Predictor, ex features.Extractor, ds *dataset.Dataset, dim Dimension, values []float64) (*Result, error) {
	if dim == ByDirection {
		return nil, fmt.Errorf("EvaluateAt requires a numeric dimension, got %s", dim)
	}

	observed, err := Evaluate(p, ex, ds, dim)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]AccuracyRecord, len(observed.Records))
	for _, r := range observed.Records {
		byKey[r.Value] = r
	}

	result := &Result{Parameter: dim.String(), Overall: observed.Overall}
	for _, v := range values {
		key := formatValue(v)
		if r, ok := byKey[key]; ok {
			result.Records = append(result.Records, r)
			continue
		}
		log.Printf("%v: %s=%s has no test samples", ErrEmptySlice, dim, key)
		result.Records = append(result.Records, AccuracyRecord{
			Parameter: dim.String(),
			Value:     key,
			Accuracy:  math.NaN(),
			Defined:   false,
		})
	}
	return result, nil
}

// sortSliceKeys orders keys numerically where possible, lexically otherwise.
func sortSliceKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
}

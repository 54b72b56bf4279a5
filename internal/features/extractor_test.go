package features

import (
	"math"
	"testing"

	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

func renderTestFigure(t *testing.T, topLen, bottomLen float64) *stimulus.LabeledImage {
	t.Helper()
	li, err := stimulus.Render(stimulus.Spec{
		Family:       stimulus.FamilyControl,
		TopLength:    topLen,
		BottomLength: bottomLen,
		FinAngleDeg:  45,
		FinLength:    15,
		Separation:   80,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return li
}

func TestExtractDimMatches(t *testing.T) {
	ex := NewHierarchical()
	li := renderTestFigure(t, 60, 40)

	desc, err := ex.Extract(li.Image)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(desc) != ex.Dim() {
		t.Errorf("descriptor length = %d, want Dim() = %d", len(desc), ex.Dim())
	}
	if ex.Dim() != 512 {
		t.Errorf("Dim() = %d, want 512", ex.Dim())
	}
}

func TestExtractDeterministic(t *testing.T) {
	ex := NewHierarchical()
	li := renderTestFigure(t, 60, 40)

	first, err := ex.Extract(li.Image)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	second, err := ex.Extract(li.Image)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("component %d differs between identical extractions", i)
		}
	}
}

func TestExtractValuesFinite(t *testing.T) {
	ex := NewHierarchical()
	li := renderTestFigure(t, 120, 45)

	desc, err := ex.Extract(li.Image)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	var nonZero int
	for i, v := range desc {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("component %d is not finite: %v", i, v)
		}
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("descriptor is all zeros for a figure with ink")
	}
}

func TestExtractSensitiveToLength(t *testing.T) {
	ex := NewHierarchical()
	short := renderTestFigure(t, 50, 40)
	long := renderTestFigure(t, 150, 40)

	a, err := ex.Extract(short.Image)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	b, err := ex.Extract(long.Image)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	var diff float64
	for i := range a {
		diff += math.Abs(a[i] - b[i])
	}
	if diff == 0 {
		t.Error("descriptors identical for figures with very different shaft lengths")
	}
}

func TestExtractNilImage(t *testing.T) {
	if _, err := NewHierarchical().Extract(nil); err == nil {
		t.Fatal("Extract accepted a nil image")
	}
}

func TestMatrixShape(t *testing.T) {
	ex := NewHierarchical()
	images := []stimulus.LabeledImage{
		*renderTestFigure(t, 60, 40),
		*renderTestFigure(t, 40, 60),
		*renderTestFigure(t, 80, 45),
	}

	x, labels, err := Matrix(ex, images, []int{0, 2})
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}

	rows, cols := x.Dims()
	if rows != 2 || cols != ex.Dim() {
		t.Errorf("matrix dims = (%d, %d), want (2, %d)", rows, cols, ex.Dim())
	}
	if labels[0] != stimulus.TopLonger || labels[1] != stimulus.TopLonger {
		t.Errorf("labels = %v, want both top-longer", labels)
	}
}

func TestMatrixRejectsBadInput(t *testing.T) {
	ex := NewHierarchical()
	images := []stimulus.LabeledImage{*renderTestFigure(t, 60, 40)}

	if _, _, err := Matrix(ex, images, nil); err == nil {
		t.Error("Matrix accepted empty index list")
	}
	if _, _, err := Matrix(ex, images, []int{5}); err == nil {
		t.Error("Matrix accepted out-of-range index")
	}
}

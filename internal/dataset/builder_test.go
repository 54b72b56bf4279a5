package dataset

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuildSplitSizes(t *testing.T) {
	grid := validGrid()
	grid.Repeats = 5 // 2 pairs x 2 angles x 5 repeats = 20 figures

	ds, err := Build(grid)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(ds.Images) != 20 {
		t.Fatalf("len(Images) = %d, want 20", len(ds.Images))
	}
	if len(ds.Train) != 16 {
		t.Errorf("len(Train) = %d, want 16", len(ds.Train))
	}
	if len(ds.Test) != 4 {
		t.Errorf("len(Test) = %d, want 4", len(ds.Test))
	}

	seen := make(map[int]bool)
	for _, i := range append(append([]int(nil), ds.Train...), ds.Test...) {
		if seen[i] {
			t.Errorf("index %d appears in both partitions", i)
		}
		seen[i] = true
	}
	if len(seen) != len(ds.Images) {
		t.Errorf("partitions cover %d indexes, want %d", len(seen), len(ds.Images))
	}
}

func TestBuildDeterministic(t *testing.T) {
	grid := validGrid()
	grid.Jitter = 8
	grid.Repeats = 2

	first, err := Build(grid)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := Build(grid)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := range first.Images {
		if !bytes.Equal(first.Images[i].Image.Pix, second.Images[i].Image.Pix) {
			t.Fatalf("image %d differs between identical builds", i)
		}
		if first.Images[i].Label != second.Images[i].Label {
			t.Fatalf("label %d differs between identical builds", i)
		}
	}
	for i := range first.Train {
		if first.Train[i] != second.Train[i] {
			t.Fatal("train split differs between identical builds")
		}
	}
}

func TestBuildFailsBeforeRenderingOnBadGrid(t *testing.T) {
	grid := validGrid()
	grid.FinAngles = nil

	_, err := Build(grid)
	if err == nil {
		t.Fatal("Build accepted an empty grid dimension")
	}
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Build error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestBuildPropagatesGeometryErrors(t *testing.T) {
	grid := validGrid()
	grid.FinLengths = []float64{500} // fins cannot fit the canvas

	if _, err := Build(grid); err == nil {
		t.Fatal("Build accepted unrenderable fin length")
	}
}

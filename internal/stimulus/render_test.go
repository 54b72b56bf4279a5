package stimulus

import (
	"bytes"
	"image"
	"testing"
)

// inkBounds returns the bounding box of all non-white pixels, and whether any
// ink was found at all.
func inkBounds(img *image.Gray) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y < 255 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func TestRenderInkStaysInBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"control mid angle", func(s *Spec) {}},
		{"control shallow angle", func(s *Spec) { s.FinAngleDeg = 15 }},
		{"control steep angle", func(s *Spec) { s.FinAngleDeg = 165 }},
		{"muller-lyer outward", func(s *Spec) {
			s.Family = FamilyMullerLyer
			s.TopDir = FinsOutward
			s.BottomDir = FinsOutward
		}},
		{"muller-lyer opposite", func(s *Spec) {
			s.Family = FamilyMullerLyer
			s.TopDir = FinsInward
			s.BottomDir = FinsOutward
		}},
		{"long shafts with jitter", func(s *Spec) {
			s.TopLength = 190
			s.BottomLength = 170
			s.VerticalOffset = 15
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)

			li, err := Render(spec)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			ink, ok := inkBounds(li.Image)
			if !ok {
				t.Fatal("rendered image contains no ink")
			}

			canvas := li.Image.Bounds()
			if ink.Min.X <= canvas.Min.X || ink.Min.Y <= canvas.Min.Y ||
				ink.Max.X >= canvas.Max.X || ink.Max.Y >= canvas.Max.Y {
				t.Errorf("ink bounds %v touch canvas edge %v", ink, canvas)
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	spec := validSpec()
	spec.Family = FamilyMullerLyer
	spec.TopDir = FinsInward

	first, err := Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.Equal(first.Image.Pix, second.Image.Pix) {
		t.Error("repeated renders of the same spec differ")
	}
}

func TestRenderControlLabelIndependentOfFins(t *testing.T) {
	// The label must follow the objective shaft lengths no matter how the fins
	// are configured.
	for _, angle := range []float64{30, 60, 90, 120, 150} {
		for _, finLen := range []float64{10, 20, 30} {
			spec := validSpec()
			spec.FinAngleDeg = angle
			spec.FinLength = finLen
			spec.TopLength = 50
			spec.BottomLength = 70

			li, err := Render(spec)
			if err != nil {
				t.Fatalf("Render(angle=%.0f finLen=%.0f) failed: %v", angle, finLen, err)
			}
			if li.Label != BottomLonger {
				t.Errorf("angle=%.0f finLen=%.0f: label = %v, want BottomLonger", angle, finLen, li.Label)
			}
		}
	}
}

func TestRenderShaftsAtExpectedRows(t *testing.T) {
	spec := validSpec()
	spec.Separation = 100

	li, err := Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	size := li.Image.Bounds().Dx()
	cx := size / 2
	topY := size/2 - 50
	bottomY := size/2 + 50

	if li.Image.GrayAt(cx, topY).Y == 255 {
		t.Errorf("no ink at top shaft center (%d, %d)", cx, topY)
	}
	if li.Image.GrayAt(cx, bottomY).Y == 255 {
		t.Errorf("no ink at bottom shaft center (%d, %d)", cx, bottomY)
	}
}

func TestRenderDirectionChangesPixels(t *testing.T) {
	base := validSpec()
	base.Family = FamilyMullerLyer

	out := base
	out.TopDir = FinsOutward
	out.BottomDir = FinsOutward

	in := base
	in.TopDir = FinsInward
	in.BottomDir = FinsInward

	a, err := Render(out)
	if err != nil {
		t.Fatalf("Render(outward) failed: %v", err)
	}
	b, err := Render(in)
	if err != nil {
		t.Fatalf("Render(inward) failed: %v", err)
	}

	if bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("outward and inward arrowheads rendered identically")
	}
}

func TestRenderHorizontalWingsDistinguishDirections(t *testing.T) {
	// At a 90 degree fin angle the wings lie along the shaft axis: outward
	// heads extend the figure horizontally while inward heads fold back over
	// the shaft, so the two directions must render differently and the outward
	// figure must span more columns.
	base := validSpec()
	base.Family = FamilyMullerLyer
	base.FinAngleDeg = 90

	out := base
	out.TopDir = FinsOutward
	out.BottomDir = FinsOutward

	in := base
	in.TopDir = FinsInward
	in.BottomDir = FinsInward

	a, err := Render(out)
	if err != nil {
		t.Fatalf("Render(outward) failed: %v", err)
	}
	b, err := Render(in)
	if err != nil {
		t.Fatalf("Render(inward) failed: %v", err)
	}

	if bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Fatal("outward and inward heads rendered identically with horizontal wings")
	}

	inkOut, ok := inkBounds(a.Image)
	if !ok {
		t.Fatal("outward render contains no ink")
	}
	inkIn, ok := inkBounds(b.Image)
	if !ok {
		t.Fatal("inward render contains no ink")
	}
	if inkOut.Dx() <= inkIn.Dx() {
		t.Errorf("outward ink spans %d columns, want more than inward's %d", inkOut.Dx(), inkIn.Dx())
	}
}

func TestRenderRejectsInvalidSpec(t *testing.T) {
	spec := validSpec()
	spec.FinLength = 200 // fins would leave the canvas

	if _, err := Render(spec); err == nil {
		t.Fatal("Render accepted an unrenderable spec")
	}
}

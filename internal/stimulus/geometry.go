package stimulus

import "math"

// point is a canvas coordinate in pixels.
type point struct {
	x, y float64
}

// segment is a single stroke from a to b.
type segment struct {
	a, b point
}

// strokes computes every stroke of the figure: both shafts plus the fin strokes
// at each shaft end. The enumeration order is fixed (top shaft, top fins, bottom
// shaft, bottom fins) so rendering is deterministic.
func (s Spec) strokes() []segment {
	size := float64(s.canvas())
	cx := size / 2
	cy := size/2 + s.VerticalOffset
	topY := cy - s.Separation/2
	bottomY := cy + s.Separation/2

	segs := make([]segment, 0, 18)
	segs = append(segs, s.shaftStrokes(cx, topY, s.TopLength, s.TopDir)...)
	segs = append(segs, s.shaftStrokes(cx, bottomY, s.BottomLength, s.BottomDir)...)
	return segs
}

// shaftStrokes returns one horizontally centered shaft at height y plus its end
// caps. dir is only consulted for Müller-Lyer figures.
func (s Spec) shaftStrokes(cx, y, length float64, dir FinDirection) []segment {
	left := point{cx - length/2, y}
	right := point{cx + length/2, y}

	// Fin angles are measured from the vertical: 0 points the fins straight
	// up and down, 90 lays them along the shaft axis.
	theta := s.FinAngleDeg * math.Pi / 180
	dx := s.FinLength * math.Sin(theta)
	dy := s.FinLength * math.Cos(theta)

	segs := []segment{{left, right}}
	if s.Family == FamilyMullerLyer {
		segs = append(segs, arrowhead(left, dx, dy, dir, true)...)
		segs = append(segs, arrowhead(right, dx, dy, dir, false)...)
	} else {
		segs = append(segs, crossFins(left, dx, dy)...)
		segs = append(segs, crossFins(right, dx, dy)...)
	}
	return segs
}

// crossFins builds the four strokes of a control-figure cross at endpoint p.
// At the extremes of the angle range the strokes collapse pairwise onto a
// single line; the duplicate overdraw is harmless and keeps the stroke count
// uniform across angles.
func crossFins(p point, dx, dy float64) []segment {
	return []segment{
		{p, point{p.x + dx, p.y - dy}},
		{p, point{p.x - dx, p.y - dy}},
		{p, point{p.x + dx, p.y + dy}},
		{p, point{p.x - dx, p.y + dy}},
	}
}

// arrowhead builds the two strokes of a Müller-Lyer head at endpoint p. For a
// left endpoint, FinsOutward extends the wings further left (beyond the shaft)
// and FinsInward folds them back rightward over the shaft; right endpoints
// mirror that.
func arrowhead(p point, dx, dy float64, dir FinDirection, leftEnd bool) []segment {
	sign := -1.0 // outward at a left end points in -x
	if !leftEnd {
		sign = 1.0
	}
	if dir == FinsInward {
		sign = -sign
	}
	return []segment{
		{p, point{p.x + sign*dx, p.y - dy}},
		{p, point{p.x + sign*dx, p.y + dy}},
	}
}

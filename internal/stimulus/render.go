package stimulus

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// LabeledImage is a rendered figure plus its ground-truth label and the Spec
// that produced it. Immutable once created.
type LabeledImage struct {
	// Image is the rendered figure: black strokes on a white background,
	// single channel.
	Image *image.Gray

	// Label records which shaft is objectively longer.
	Label Label

	// Spec is the parameter record the figure was rendered from.
	Spec Spec
}

// Render rasterizes a Spec into a LabeledImage.
//
// The canvas is white with black anti-aliased strokes of fixed 2 px width.
// Rendering is purely functional: it has no side effects and the same Spec
// always produces byte-identical pixels.
//
// Returns ErrInvalidGeometry (via Validate) if any stroke would leave the
// canvas; invalid specs are never clipped.
func Render(s Spec) (*LabeledImage, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	size := s.canvas()
	bounds := image.Rect(0, 0, size, size)

	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)

	// Accumulate every stroke quad in one rasterizer so overlapping strokes
	// (fin roots meeting the shaft) composite in a single pass.
	z := vector.NewRasterizer(size, size)
	for _, seg := range s.strokes() {
		strokeQuad(z, seg, strokeWidth/2)
	}
	z.Draw(canvas, bounds, image.NewUniform(color.Black), image.Point{})

	// Black over white always yields r == g == b, so the red channel is the
	// exact luminance.
	gray := image.NewGray(bounds)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			gray.SetGray(x, y, color.Gray{Y: canvas.RGBAAt(x, y).R})
		}
	}

	return &LabeledImage{Image: gray, Label: s.Label(), Spec: s}, nil
}

// strokeQuad appends the oriented quad covering a stroke of the given
// half-width to the rasterizer. The corner order is invariant under segment
// reversal, so all quads share one winding direction.
func strokeQuad(z *vector.Rasterizer, seg segment, halfWidth float64) {
	dx := seg.b.x - seg.a.x
	dy := seg.b.y - seg.a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	px := -dy / length * halfWidth
	py := dx / length * halfWidth

	z.MoveTo(float32(seg.a.x+px), float32(seg.a.y+py))
	z.LineTo(float32(seg.b.x+px), float32(seg.b.y+py))
	z.LineTo(float32(seg.b.x-px), float32(seg.b.y-py))
	z.LineTo(float32(seg.a.x-px), float32(seg.a.y-py))
	z.ClosePath()
}

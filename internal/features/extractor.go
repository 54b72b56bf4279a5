package features

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Extractor transforms an image into a fixed-length numeric descriptor.
// Implementations must be deterministic and report a constant Dim.
type Extractor interface {
	Extract(img image.Image) ([]float64, error)
	Dim() int
}

// scale describes one simple-cell filter scale.
type scale struct {
	kernelSize int
	lambda     float64
	sigma      float64
}

// HierarchicalExtractor is the fixed Gabor-pyramid descriptor. Construct it
// with NewHierarchical; the zero value is not usable.
type HierarchicalExtractor struct {
	inputSize    int
	blurRadius   float64
	orientations []float64
	scales       []scale
	poolGrid     int

	// even/odd kernels indexed by [scale][orientation], built once.
	even [][][][]float64
	odd  [][][][]float64
}

// NewHierarchical builds the extractor with its fixed published parameters:
// a 64x64 working resolution, light Gaussian smoothing, four orientations
// (0°, 45°, 90°, 135°) at two scales, and 8x8 max pooling per response map.
//
// The resulting descriptor has 4 orientations x 2 scales x 64 cells =
// 512 components.
func NewHierarchical() *HierarchicalExtractor {
	e := &HierarchicalExtractor{
		inputSize:  64,
		blurRadius: 1.0,
		orientations: []float64{
			0,
			math.Pi / 4,
			math.Pi / 2,
			3 * math.Pi / 4,
		},
		scales: []scale{
			{kernelSize: 7, lambda: 5, sigma: 2.8},
			{kernelSize: 11, lambda: 8, sigma: 4.5},
		},
		poolGrid: 8,
	}

	const gamma = 0.5
	for _, sc := range e.scales {
		evenBank := make([][][]float64, 0, len(e.orientations))
		oddBank := make([][][]float64, 0, len(e.orientations))
		for _, theta := range e.orientations {
			evenBank = append(evenBank, gaborKernel(sc.kernelSize, theta, sc.lambda, sc.sigma, gamma, 0))
			oddBank = append(oddBank, gaborKernel(sc.kernelSize, theta, sc.lambda, sc.sigma, gamma, math.Pi/2))
		}
		e.even = append(e.even, evenBank)
		e.odd = append(e.odd, oddBank)
	}
	return e
}

// Dim returns the fixed descriptor length.
func (e *HierarchicalExtractor) Dim() int {
	return len(e.scales) * len(e.orientations) * e.poolGrid * e.poolGrid
}

// Extract runs the full hierarchy on one image and returns its descriptor.
//
// Stages: resize to the working resolution, Gaussian smoothing, even/odd
// oriented filtering per scale and orientation, orientation energy
// (sqrt(even² + odd²)), and per-map max pooling over the coarse grid. The
// pooled maps are concatenated scale-major, orientation-minor.
func (e *HierarchicalExtractor) Extract(img image.Image) ([]float64, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	small := imaging.Resize(img, e.inputSize, e.inputSize, imaging.Lanczos)
	smoothed := blur.Gaussian(small, e.blurRadius)
	ink := e.inkMatrix(smoothed)

	desc := make([]float64, 0, e.Dim())
	for si := range e.scales {
		for oi := range e.orientations {
			evenResp := convolve(ink, e.even[si][oi])
			oddResp := convolve(ink, e.odd[si][oi])

			energy := make([][]float64, len(ink))
			for y := range energy {
				energy[y] = make([]float64, len(ink[y]))
				for x := range energy[y] {
					ev := evenResp[y][x]
					od := oddResp[y][x]
					energy[y][x] = math.Sqrt(ev*ev + od*od)
				}
			}
			desc = append(desc, maxPool(energy, e.poolGrid)...)
		}
	}
	return desc, nil
}

// inkMatrix converts the smoothed image to a float matrix with ink at 1 and
// background at 0, using BT.601 luminance weights.
func (e *HierarchicalExtractor) inkMatrix(img image.Image) [][]float64 {
	bounds := img.Bounds()
	height := bounds.Dy()
	width := bounds.Dx()

	m := make([][]float64, height)
	for y := 0; y < height; y++ {
		m[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r>>8) / 255.0
			gf := float64(g>>8) / 255.0
			bf := float64(b>>8) / 255.0
			lum := 0.299*rf + 0.587*gf + 0.114*bf
			m[y][x] = 1 - lum
		}
	}
	return m
}

package features

import "math"

// gaborKernel builds a size x size Gabor kernel.
//
// theta is the filter orientation in radians, lambda the carrier wavelength in
// pixels, sigma the Gaussian envelope width, gamma the envelope aspect ratio,
// and psi the carrier phase (0 for the even filter, pi/2 for the odd one).
//
// The even kernel is shifted to zero mean so flat regions produce no response,
// and both are scaled to unit L2 norm so responses are comparable across
// scales.
func gaborKernel(size int, theta, lambda, sigma, gamma, psi float64) [][]float64 {
	half := size / 2
	k := make([][]float64, size)

	sum := 0.0
	for y := 0; y < size; y++ {
		k[y] = make([]float64, size)
		for x := 0; x < size; x++ {
			fx := float64(x - half)
			fy := float64(y - half)

			xr := fx*math.Cos(theta) + fy*math.Sin(theta)
			yr := -fx*math.Sin(theta) + fy*math.Cos(theta)

			envelope := math.Exp(-(xr*xr + gamma*gamma*yr*yr) / (2 * sigma * sigma))
			k[y][x] = envelope * math.Cos(2*math.Pi*xr/lambda+psi)
			sum += k[y][x]
		}
	}

	// Zero mean (only meaningful for the even phase; for the odd phase the sum
	// is already near zero by antisymmetry).
	mean := sum / float64(size*size)
	var norm float64
	for y := range k {
		for x := range k[y] {
			k[y][x] -= mean
			norm += k[y][x] * k[y][x]
		}
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for y := range k {
			for x := range k[y] {
				k[y][x] /= norm
			}
		}
	}
	return k
}

// convolve applies a square kernel to a 2D float image with clamped
// (replicated) borders, the same border policy the Sobel and Gaussian stages
// of edge detection use.
func convolve(img [][]float64, kernel [][]float64) [][]float64 {
	height := len(img)
	width := len(img[0])
	half := len(kernel) / 2

	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					py := clampIndex(y+ky, height-1)
					px := clampIndex(x+kx, width-1)
					sum += img[py][px] * kernel[ky+half][kx+half]
				}
			}
			out[y][x] = sum
		}
	}
	return out
}

// clampIndex constrains i to [0, max].
func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// maxPool divides the response map into a grid x grid lattice of cells and
// returns the maximum response per cell, row-major. Cell edges are computed by
// proportional rounding so the cells tile the map exactly.
func maxPool(resp [][]float64, grid int) []float64 {
	height := len(resp)
	width := len(resp[0])

	out := make([]float64, 0, grid*grid)
	for gy := 0; gy < grid; gy++ {
		y0 := gy * height / grid
		y1 := (gy + 1) * height / grid
		for gx := 0; gx < grid; gx++ {
			x0 := gx * width / grid
			x1 := (gx + 1) * width / grid

			max := 0.0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if resp[y][x] > max {
						max = resp[y][x]
					}
				}
			}
			out = append(out, max)
		}
	}
	return out
}

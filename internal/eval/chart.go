package eval

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Series is one accuracy curve on a chart.
type Series struct {
	Name    string
	Records []AccuracyRecord
}

// Chart renders one or more accuracy-vs-parameter curves into a PNG for quick
// inspection; the CSV/JSON tables remain the authoritative export for
// downstream plotting.
type Chart struct {
	Title  string
	XLabel string
	Series []Series
}

// Chart layout constants in pixels.
const (
	chartWidth   = 640
	chartHeight  = 420
	chartLeft    = 60
	chartRight   = 600
	chartTop     = 50
	chartBottom  = 360
	chartMarkRad = 2
)

// Render draws the chart: axes with a 0..1 accuracy scale, a dashed chance
// line at 0.5, one polyline per series, and a legend. Undefined records leave
// gaps in their curve rather than plotting a false zero.
//
// Series colors are evenly spaced hues from a fixed perceptual ramp, so any
// number of curves stays distinguishable.
func (c Chart) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	axisColor := color.RGBA{30, 30, 30, 255}
	gridColor := color.RGBA{210, 210, 210, 255}

	// Horizontal gridlines and axis labels every 0.25.
	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		y := chartBottom - int(frac*float64(chartBottom-chartTop))
		drawHLine(img, chartLeft, chartRight, y, gridColor)
		drawText(img, 20, y+4, fmt.Sprintf("%.2f", frac), axisColor)
	}

	// Chance line at 0.5.
	chanceY := chartBottom - (chartBottom-chartTop)/2
	for x := chartLeft; x < chartRight; x += 8 {
		drawHLine(img, x, x+4, chanceY, color.RGBA{150, 150, 150, 255})
	}

	// Axes.
	drawHLine(img, chartLeft, chartRight, chartBottom, axisColor)
	drawVLine(img, chartLeft, chartTop, chartBottom, axisColor)

	drawText(img, chartLeft, 24, c.Title, axisColor)
	drawText(img, (chartLeft+chartRight)/2-len(c.XLabel)*3, chartHeight-12, c.XLabel, axisColor)

	maxPoints := 0
	for _, s := range c.Series {
		if len(s.Records) > maxPoints {
			maxPoints = len(s.Records)
		}
	}
	if maxPoints == 0 {
		return img
	}

	// X tick labels from the first series with the most points.
	for _, s := range c.Series {
		if len(s.Records) != maxPoints {
			continue
		}
		for i, r := range s.Records {
			x := pointX(i, maxPoints)
			drawVLine(img, x, chartBottom, chartBottom+4, axisColor)
			drawText(img, x-len(r.Value)*3, chartBottom+18, r.Value, axisColor)
		}
		break
	}

	for si, s := range c.Series {
		col := seriesColor(si, len(c.Series))

		prevX, prevY := -1, -1
		for i, r := range s.Records {
			if !r.Defined {
				prevX = -1 // break the polyline at undefined points
				continue
			}
			x := pointX(i, maxPoints)
			y := chartBottom - int(clampUnit(r.Accuracy)*float64(chartBottom-chartTop))

			fillMark(img, x, y, col)
			if prevX >= 0 {
				drawLine(img, prevX, prevY, x, y, col)
			}
			prevX, prevY = x, y
		}

		legendY := chartTop + si*16
		drawHLine(img, chartRight-90, chartRight-70, legendY, col)
		drawText(img, chartRight-64, legendY+4, s.Name, axisColor)
	}
	return img
}

// SavePNG renders the chart and writes it to path.
func (c Chart) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, c.Render()); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}

// seriesColor picks evenly spaced hues at fixed saturation and value.
func seriesColor(i, n int) color.RGBA {
	if n < 1 {
		n = 1
	}
	hue := float64(i) * 360 / float64(n)
	r, g, b := colorful.Hsv(hue, 0.85, 0.75).RGB255()
	return color.RGBA{r, g, b, 255}
}

func pointX(i, n int) int {
	if n == 1 {
		return (chartLeft + chartRight) / 2
	}
	return chartLeft + 20 + i*(chartRight-chartLeft-40)/(n-1)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func drawHLine(img *image.RGBA, x0, x1, y int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.Set(x, y, col)
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, col color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.Set(x, y, col)
	}
}

// drawLine draws a straight segment by uniform parameter stepping; chart
// segments are short enough that this stays gap-free.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		img.Set(x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.Set(x0+int(dx*t+0.5), y0+int(dy*t+0.5), col)
	}
}

func fillMark(img *image.RGBA, cx, cy int, col color.RGBA) {
	for dy := -chartMarkRad; dy <= chartMarkRad; dy++ {
		for dx := -chartMarkRad; dx <= chartMarkRad; dx++ {
			img.Set(cx+dx, cy+dy, col)
		}
	}
}

func drawText(img *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

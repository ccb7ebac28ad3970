package recolor

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Condition turns a raw mask into feathered weights in [0,1].
//
// In binary mode (graded == false) any nonzero sample counts as fully
// included; in graded mode samples map linearly, v/255. The normalized mask is
// then smoothed with a separable Gaussian whose half-width is radius pixels
// (sigma = radius/3). A radius of 0 skips smoothing.
//
// The transition band is confined to ceil(radius) pixels on either side of a
// mask edge: a sample whose whole kernel footprint is uniform keeps its value
// exactly. Borders are extended by reflect-101, so a uniform mask stays
// uniform all the way to the image edge.
func Condition(m *Mask, radius float64, graded bool) (*Weights, error) {
	if m == nil || m.Width <= 0 || m.Height <= 0 || len(m.Pix) != m.Width*m.Height {
		return nil, fmt.Errorf("%w: empty or malformed mask", ErrInvalidParameter)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return nil, fmt.Errorf("%w: feather radius %v must be a finite value >= 0", ErrInvalidParameter, radius)
	}

	w := &Weights{Width: m.Width, Height: m.Height, Pix: make([]float64, len(m.Pix))}
	for i, v := range m.Pix {
		switch {
		case v == 0:
		case graded:
			w.Pix[i] = float64(v) / 255
		default:
			w.Pix[i] = 1
		}
	}

	kernel := gaussianKernel(radius)
	if len(kernel) <= 1 {
		return w, nil
	}

	tmp := make([]float64, len(w.Pix))
	convolveRows(w.Pix, tmp, w.Width, w.Height, kernel)
	convolveCols(tmp, w.Pix, w.Width, w.Height, kernel)
	return w, nil
}

// gaussianKernel returns unnormalized taps for offsets -n..n, n = ceil(radius).
// Normalization happens per sample in the convolution loops.
func gaussianKernel(radius float64) []float64 {
	n := int(math.Ceil(radius))
	if n == 0 {
		return []float64{1}
	}
	sigma := radius / 3
	k := make([]float64, 2*n+1)
	for i := -n; i <= n; i++ {
		d := float64(i)
		k[i+n] = math.Exp(-(d * d) / (2 * sigma * sigma))
	}
	return k
}

// reflect101 maps an out-of-range index back into [0,n) by mirroring around
// the first and last samples without repeating them: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2*n - 2
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// convolveRows blurs each row of src into dst.
func convolveRows(src, dst []float64, width, height int, kernel []float64) {
	n := len(kernel) / 2
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := src[y*width : (y+1)*width]
			for x := 0; x < width; x++ {
				var acc, sum float64
				for k, g := range kernel {
					acc += g * row[reflect101(x+k-n, width)]
					sum += g
				}
				dst[y*width+x] = settle(acc, sum)
			}
		}
	})
}

// convolveCols blurs each column of src into dst.
func convolveCols(src, dst []float64, width, height int, kernel []float64) {
	n := len(kernel) / 2
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var acc, sum float64
				for k, g := range kernel {
					acc += g * src[reflect101(y+k-n, height)*width+x]
					sum += g
				}
				dst[y*width+x] = settle(acc, sum)
			}
		}
	})
}

// settle normalizes an accumulated sample. acc and sum are built in the same
// order, so a footprint of all ones yields exactly 1.
func settle(acc, sum float64) float64 {
	return clamp(acc/sum, 0, 1)
}

package recolor

import "github.com/anthonynsimon/bild/parallel"

// Blend moves the chrominance of every pixel toward target, keeping lightness.
//
// For mask weight m and strength s:
//
//	L' = L
//	A' = A·(1−m) + (A·(1−s) + target.A·s)·m
//	B' = B·(1−m) + (B·(1−s) + target.B·s)·m
//
// which is evaluated as A + m·s·(target.A − A). Since m·s is in [0,1] the
// result always lies between the original and the target chrominance.
//
// img and w must have the same dimensions; Recolor checks that before calling.
func Blend(img *LabImage, w *Weights, target Lab, strength float64) *LabImage {
	out := &LabImage{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]Lab, len(img.Pix)),
	}
	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < img.Width; x++ {
				i := y*img.Width + x
				out.Pix[i] = blendPixel(img.Pix[i], target, w.Pix[i]*strength)
			}
		}
	})
	return out
}

func blendPixel(p, target Lab, k float64) Lab {
	if k <= 0 {
		return p
	}
	if k >= 1 {
		return Lab{L: p.L, A: target.A, B: target.B}
	}
	return Lab{
		L: p.L,
		A: p.A + k*(target.A-p.A),
		B: p.B + k*(target.B-p.B),
	}
}

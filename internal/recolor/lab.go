package recolor

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Lab is a CIE L*a*b* triple relative to the D65 white point.
//
// L ranges over [0,100]; A and B are signed chrominance, roughly [-128,127]
// for colors inside the sRGB gamut.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// LabImage holds one Lab triple per pixel, row-major.
type LabImage struct {
	Width  int
	Height int
	Pix    []Lab
}

// At returns the Lab value of pixel (x, y).
func (li *LabImage) At(x, y int) Lab {
	return li.Pix[y*li.Width+x]
}

// D65 white, taken as the row sums of the sRGB->XYZ matrix so that neutral
// grays land on a = b = 0.
var whiteD65 = [3]float64{0.95045592705167, 1.0, 1.089057750759878}

const (
	labDelta = 6.0 / 29.0
	labEps   = labDelta * labDelta * labDelta
)

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		v := float64(i) / 255.0
		if v <= 0.04045 {
			srgbToLinear[i] = v / 12.92
		} else {
			srgbToLinear[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func labF(t float64) float64 {
	if t > labEps {
		return math.Cbrt(t)
	}
	return t/(3*labDelta*labDelta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	if t > labDelta {
		return t * t * t
	}
	return 3 * labDelta * labDelta * (t - 4.0/29.0)
}

// ToLab converts an 8-bit sRGB color to CIE L*a*b*.
func ToLab(c Color) Lab {
	r := srgbToLinear[c.R]
	g := srgbToLinear[c.G]
	b := srgbToLinear[c.B]

	x := 0.41239079926595948*r + 0.35758433938387796*g + 0.18048078840183429*b
	y := 0.21263900587151036*r + 0.71516867876775593*g + 0.072192315360733715*b
	z := 0.019330818715591851*r + 0.11919477979462599*g + 0.95053215224966058*b

	fx := labF(x / whiteD65[0])
	fy := labF(y / whiteD65[1])
	fz := labF(z / whiteD65[2])

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// Color converts back to 8-bit sRGB. Values outside the sRGB gamut are
// clipped per channel in linear light, then rounded.
func (l Lab) Color() Color {
	fy := (l.L + 16) / 116
	x := whiteD65[0] * labFInv(fy+l.A/500)
	y := whiteD65[1] * labFInv(fy)
	z := whiteD65[2] * labFInv(fy-l.B/200)

	r := 3.2409699419045214*x - 1.5373831775700935*y - 0.49861076029300328*z
	g := -0.96924363628087983*x + 1.8759675015077207*y + 0.041555057407175613*z
	b := 0.055630079696993609*x - 0.20397695888897657*y + 1.0569715142428786*z

	return Color{R: to8(r), G: to8(g), B: to8(b)}
}

func to8(linear float64) uint8 {
	v := linearToSRGB(clamp(linear, 0, 1))*255 + 0.5
	if v >= 255 {
		return 255
	}
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return uint8(v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToLabImage transcodes every pixel of img to Lab.
func ToLabImage(img *Image) *LabImage {
	out := &LabImage{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]Lab, img.Width*img.Height),
	}
	parallel.Line(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < img.Width; x++ {
				i := y*img.Width + x
				out.Pix[i] = ToLab(Color{R: img.Pix[i*3], G: img.Pix[i*3+1], B: img.Pix[i*3+2]})
			}
		}
	})
	return out
}

// Image transcodes the Lab buffer back to 8-bit sRGB.
func (li *LabImage) Image() *Image {
	out := NewImage(li.Width, li.Height)
	parallel.Line(li.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < li.Width; x++ {
				i := y*li.Width + x
				c := li.Pix[i].Color()
				out.Pix[i*3] = c.R
				out.Pix[i*3+1] = c.G
				out.Pix[i*3+2] = c.B
			}
		}
	})
	return out
}

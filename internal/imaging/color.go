package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in several representations.
//
//   - Hex: "#RRGGBB", the same notation the color parser accepts
//   - RGB: 8-bit components
//   - HSL: intuitive hue/saturation/lightness
//   - Lab: CIE L*a*b* as used by the recoloring engine
type ColorResult struct {
	Hex string        `json:"hex"`
	RGB recolor.Color `json:"rgb"`
	HSL HSLColor      `json:"hsl"`
	Lab recolor.Lab   `json:"lab"`
}

// DescribeColor builds a ColorResult for c.
func DescribeColor(c recolor.Color) ColorResult {
	return ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: rgbToHSL(c.R, c.G, c.B),
		Lab: recolor.ToLab(c),
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based relative to the image's top-left corner. Alpha is
// discarded, the same way the recoloring pipeline discards it.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	c := unpremultiply(r, g, b, a)
	res := DescribeColor(c)
	return &res, nil
}

// ColorFrequency represents a quantized color and its share of the sampled pixels.
type ColorFrequency struct {
	Hex        string        `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64       `json:"percentage"` // Share of sampled pixels (0-100)
	RGB        recolor.Color `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult lists colors by descending frequency.
type DominantColorsResult struct {
	Colors        []ColorFrequency `json:"colors"`
	SampledPixels int              `json:"sampled_pixels"`
}

// DominantColors extracts the count most common colors of img.
//
// When mask is non-nil only pixels with a nonzero mask sample are counted,
// which gives the current color of a selected wall. The mask must match the
// image size. Components are quantized to multiples of 16 so that near-equal
// shades group together.
func DominantColors(img *recolor.Image, count int, mask *recolor.Mask) (*DominantColorsResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if mask != nil && (mask.Width != img.Width || mask.Height != img.Height) {
		return nil, fmt.Errorf("mask %dx%d does not match image %dx%d", mask.Width, mask.Height, img.Width, img.Height)
	}

	counts := make(map[recolor.Color]int)
	total := 0
	for i := 0; i < img.Width*img.Height; i++ {
		if mask != nil && mask.Pix[i] == 0 {
			continue
		}
		q := recolor.Color{
			R: img.Pix[i*3] / 16 * 16,
			G: img.Pix[i*3+1] / 16 * 16,
			B: img.Pix[i*3+2] / 16 * 16,
		}
		counts[q]++
		total++
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})
	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors, SampledPixels: total}, nil
}

func unpremultiply(r, g, b, a uint32) recolor.Color {
	if a == 0 {
		return recolor.Color{}
	}
	if a != 0xffff {
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}
	return recolor.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// rgbToHSL converts 8-bit RGB values to HSL.
func rgbToHSL(r, g, b uint8) HSLColor {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	max := rf
	if gf > max {
		max = gf
	}
	if bf > max {
		max = bf
	}

	min := rf
	if gf < min {
		min = gf
	}
	if bf < min {
		min = bf
	}

	l := (max + min) / 2.0

	if max == min {
		return HSLColor{H: 0, S: 0, L: int(l * 100)}
	}

	var s float64
	if l < 0.5 {
		s = (max - min) / (max + min)
	} else {
		s = (max - min) / (2.0 - max - min)
	}

	var h float64
	switch max {
	case rf:
		h = (gf - bf) / (max - min)
		if gf < bf {
			h += 6
		}
	case gf:
		h = 2.0 + (bf-rf)/(max-min)
	case bf:
		h = 4.0 + (rf-gf)/(max-min)
	}
	h *= 60

	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

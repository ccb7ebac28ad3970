package recolor

import (
	"fmt"
	"image"
	"image/color"
)

// Color is an opaque device RGB color with 8-bit components.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Image is a packed 8-bit RGB raster. Pixel (x, y) starts at Pix[3*(y*Width+x)].
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a black image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

// FromImage copies any image.Image into a packed RGB buffer.
//
// Alpha is discarded without compositing: each pixel keeps its
// non-premultiplied color, the same as dropping the alpha channel of an RGBA
// photo.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < img.Height; y++ {
			row := n.Pix[(y+b.Min.Y-n.Rect.Min.Y)*n.Stride+(b.Min.X-n.Rect.Min.X)*4:]
			out := img.Pix[y*img.Width*3:]
			for x := 0; x < img.Width; x++ {
				out[x*3] = row[x*4]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
		return img
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*img.Width + x) * 3
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
		}
	}
	return img
}

// At returns the color of pixel (x, y). Coordinates must be in range.
func (img *Image) At(x, y int) Color {
	i := (y*img.Width + x) * 3
	return Color{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

// Set stores c at pixel (x, y). Coordinates must be in range.
func (img *Image) Set(x, y int, c Color) {
	i := (y*img.Width + x) * 3
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	out := &Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

// Equal reports whether two images have the same size and bytes.
func (img *Image) Equal(other *Image) bool {
	if img.Width != other.Width || img.Height != other.Height || len(img.Pix) != len(other.Pix) {
		return false
	}
	for i := range img.Pix {
		if img.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// NRGBA converts the buffer to an opaque *image.NRGBA for encoding.
func (img *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for p := 0; p < img.Width*img.Height; p++ {
		out.Pix[p*4] = img.Pix[p*3]
		out.Pix[p*4+1] = img.Pix[p*3+1]
		out.Pix[p*4+2] = img.Pix[p*3+2]
		out.Pix[p*4+3] = 0xFF
	}
	return out
}

// Mask is a single-channel 8-bit raster: 0 excludes a pixel, 255 fully
// includes it, values in between are partial coverage.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an all-zero mask.
func NewMask(width, height int) *Mask {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// FromGray copies an *image.Gray into a Mask.
func FromGray(g *image.Gray) *Mask {
	b := g.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		src := g.Pix[(y+b.Min.Y-g.Rect.Min.Y)*g.Stride+(b.Min.X-g.Rect.Min.X):]
		copy(m.Pix[y*m.Width:(y+1)*m.Width], src[:m.Width])
	}
	return m
}

// Fill sets every sample to v.
func (m *Mask) Fill(v uint8) {
	for i := range m.Pix {
		m.Pix[i] = v
	}
}

// Coverage returns the fraction of nonzero samples, 0 for an empty mask.
func (m *Mask) Coverage() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return float64(n) / float64(len(m.Pix))
}

// Weights is a feathered mask: one float weight in [0,1] per pixel.
type Weights struct {
	Width  int
	Height int
	Pix    []float64
}

// Gray renders the weights as an 8-bit grayscale image (1.0 -> 255).
func (w *Weights) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w.Width, w.Height))
	for i, v := range w.Pix {
		out.Pix[i] = uint8(clamp(v, 0, 1)*255 + 0.5)
	}
	return out
}

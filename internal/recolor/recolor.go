package recolor

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

const (
	// DefaultStrength is the blend strength used when none is given.
	DefaultStrength = 0.9

	// DefaultFeatherRadius is the feather half-width in pixels. It yields
	// sigma 1.2 over a 9-tap kernel.
	DefaultFeatherRadius = 3.6
)

// Options controls a Recolor call.
type Options struct {
	// Strength is how far chrominance moves toward the target inside the
	// mask: 0 leaves the image untouched, 1 replaces it. Must be in [0,1].
	Strength float64

	// FeatherRadius is the width in pixels of the soft band at mask edges.
	// 0 disables feathering.
	FeatherRadius float64

	// Graded keeps intermediate mask values as partial weights instead of
	// treating every nonzero sample as fully included.
	Graded bool
}

// DefaultOptions returns Options{Strength: 0.9, FeatherRadius: 3.6}.
func DefaultOptions() Options {
	return Options{
		Strength:      DefaultStrength,
		FeatherRadius: DefaultFeatherRadius,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if math.IsNaN(o.Strength) || o.Strength < 0 || o.Strength > 1 {
		return fmt.Errorf("%w: strength %v outside [0,1]", ErrInvalidParameter, o.Strength)
	}
	if math.IsNaN(o.FeatherRadius) || math.IsInf(o.FeatherRadius, 0) || o.FeatherRadius < 0 {
		return fmt.Errorf("%w: feather radius %v must be a finite value >= 0", ErrInvalidParameter, o.FeatherRadius)
	}
	return nil
}

// Recolor paints the masked region of img with the hue and chroma of target
// while preserving the lightness of every pixel.
//
// mask must already have img's dimensions; a mismatch fails with
// ErrDimensionMismatch before any pixel work. Out-of-range options fail with
// ErrInvalidParameter. The inputs are not modified and the returned image is
// newly allocated. Pixels whose effective weight is zero are copied unchanged,
// so an all-zero mask returns an exact copy of img.
func Recolor(img *Image, mask *Mask, target Color, opts Options) (*Image, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) != 3*img.Width*img.Height {
		return nil, fmt.Errorf("%w: empty or malformed image", ErrInvalidParameter)
	}
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidParameter)
	}
	if mask.Width != img.Width || mask.Height != img.Height {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrDimensionMismatch, img.Width, img.Height, mask.Width, mask.Height)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	weights, err := Condition(mask, opts.FeatherRadius, opts.Graded)
	if err != nil {
		return nil, err
	}

	lab := ToLabImage(img)
	blended := Blend(lab, weights, ToLab(target), opts.Strength)
	return compose(img, blended, weights, opts.Strength), nil
}

// compose transcodes blended back to sRGB, taking the original bytes wherever
// the effective weight is zero.
func compose(src *Image, blended *LabImage, w *Weights, strength float64) *Image {
	out := NewImage(src.Width, src.Height)
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < src.Width; x++ {
				i := y*src.Width + x
				if w.Pix[i]*strength <= 0 {
					copy(out.Pix[i*3:i*3+3], src.Pix[i*3:i*3+3])
					continue
				}
				c := blended.Pix[i].Color()
				out.Pix[i*3] = c.R
				out.Pix[i*3+1] = c.G
				out.Pix[i*3+2] = c.B
			}
		}
	})
	return out
}

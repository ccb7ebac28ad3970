package recolor

import "errors"

var (
	// ErrDimensionMismatch is returned when the image and mask sizes differ.
	// The mask is never resized here; that is the rasterizer's job.
	ErrDimensionMismatch = errors.New("recolor: image and mask dimensions differ")

	// ErrInvalidParameter is returned for out-of-range options or malformed inputs.
	ErrInvalidParameter = errors.New("recolor: invalid parameter")
)

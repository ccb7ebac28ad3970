package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// RasterizeMask turns a drawn selection into a recolor.Mask of the given size.
//
// The selection is resized with nearest-neighbor sampling so no new gray
// levels appear and converted to luminance (ITU-R 601-2, rounded to 8 bits).
// Unless graded is set the result is binarized: any sample with nonzero
// luminance becomes 255, the rest 0. A graded mask keeps the luminance as a
// partial weight. Alpha is ignored, matching a canvas export flattened to RGB.
func RasterizeMask(sel image.Image, width, height int, graded bool) *recolor.Mask {
	m := recolor.NewMask(width, height)
	if width <= 0 || height <= 0 || sel.Bounds().Empty() {
		return m
	}

	resized := imaging.Resize(sel, width, height, imaging.NearestNeighbor)
	for y := 0; y < height; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < width; x++ {
			r, g, b := uint32(row[x*4]), uint32(row[x*4+1]), uint32(row[x*4+2])
			lum := (r*299 + g*587 + b*114 + 500) / 1000
			switch {
			case graded:
				m.Pix[y*width+x] = uint8(lum)
			case lum > 0:
				m.Pix[y*width+x] = 255
			}
		}
	}
	return m
}

package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// OverlayMask draws the selection on top of the photo so a user can check
// what will be painted: covered pixels are mixed half-way toward tint and
// the selection boundary is drawn solid in tint.
//
// m must match the photo size; pixels outside m are left as they are.
func OverlayMask(img image.Image, m *recolor.Mask, tint recolor.Color) *image.NRGBA {
	out := imaging.Clone(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	if m.Width < w {
		w = m.Width
	}
	if m.Height < h {
		h = m.Height
	}

	solid := color.NRGBA{R: tint.R, G: tint.G, B: tint.B, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Pix[y*m.Width+x] == 0 {
				continue
			}
			if onBoundary(m, x, y) {
				out.SetNRGBA(x, y, solid)
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i] = mix(out.Pix[i], tint.R)
			out.Pix[i+1] = mix(out.Pix[i+1], tint.G)
			out.Pix[i+2] = mix(out.Pix[i+2], tint.B)
			out.Pix[i+3] = 255
		}
	}
	return out
}

// onBoundary reports whether a covered pixel touches an uncovered one or the
// image edge (4-neighbourhood).
func onBoundary(m *recolor.Mask, x, y int) bool {
	if x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1 {
		return true
	}
	i := y*m.Width + x
	return m.Pix[i-1] == 0 || m.Pix[i+1] == 0 || m.Pix[i-m.Width] == 0 || m.Pix[i+m.Width] == 0
}

func mix(a, b uint8) uint8 {
	return uint8((uint16(a) + uint16(b) + 1) / 2)
}

package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// Sheet geometry in pixels.
const (
	sheetMargin  = 36
	swatchWidth  = 60
	swatchHeight = 30
	swatchGap    = 12
	lineHeight   = 14

	sheetTitle = "Paint Plan"
	sheetNote  = "Colors are approximations. Confirm with a physical sample."
)

var sheetFace = basicfont.Face7x13

// SheetSwatch is one labeled color chip on a comparison sheet.
type SheetSwatch struct {
	Color recolor.Color
	Label string
}

// sheetLayout positions the parts of a comparison sheet for photos of size
// w x h.
type sheetLayout struct {
	width, height int
	photosTop     int
	swatchTop     int
	swatchX       []int
}

func layoutSheet(w, h int, swatches []SheetSwatch) sheetLayout {
	m := sheetMargin
	l := sheetLayout{photosTop: m + 3*lineHeight}
	l.width = 2*w + 3*m
	l.height = l.photosTop + h + m

	if len(swatches) > 0 {
		l.swatchTop = l.photosTop + h + m/2
		x := m
		for _, s := range swatches {
			l.swatchX = append(l.swatchX, x)
			step := swatchWidth
			if tw := font.MeasureString(sheetFace, s.Label).Ceil(); tw > step {
				step = tw
			}
			x += step + swatchGap
		}
		if x-swatchGap+m > l.width {
			l.width = x - swatchGap + m
		}
		l.height = l.swatchTop + swatchHeight + lineHeight + m/2
	}
	if tw := font.MeasureString(sheetFace, sheetNote).Ceil() + 2*m; tw > l.width {
		l.width = tw
	}
	return l
}

// CompareSheet lays out a paint plan: a title, original and preview side by
// side with captions, and a row of labeled color swatches underneath. The
// two photos are expected to share dimensions; preview is scaled to
// original's size otherwise.
func CompareSheet(original, preview image.Image, swatches []SheetSwatch) *image.NRGBA {
	ob := original.Bounds()
	w, h := ob.Dx(), ob.Dy()
	if pb := preview.Bounds(); pb.Dx() != w || pb.Dy() != h {
		preview = imaging.Resize(preview, w, h, imaging.Lanczos)
	}

	m := sheetMargin
	l := layoutSheet(w, h, swatches)

	sheet := imaging.New(l.width, l.height, color.White)
	sheet = imaging.Paste(sheet, original, image.Pt(m, l.photosTop))
	sheet = imaging.Paste(sheet, preview, image.Pt(2*m+w, l.photosTop))

	drawText(sheet, m, m, sheetTitle)
	drawText(sheet, m, m+lineHeight, sheetNote)
	drawText(sheet, m, l.photosTop-4, "Original")
	drawText(sheet, 2*m+w, l.photosTop-4, "Preview")

	border := color.NRGBA{A: 255}
	for i, s := range swatches {
		x0, y0 := l.swatchX[i], l.swatchTop
		fill := color.NRGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: 255}
		for y := 0; y < swatchHeight; y++ {
			for x := 0; x < swatchWidth; x++ {
				edge := x == 0 || y == 0 || x == swatchWidth-1 || y == swatchHeight-1
				if edge {
					sheet.SetNRGBA(x0+x, y0+y, border)
				} else {
					sheet.SetNRGBA(x0+x, y0+y, fill)
				}
			}
		}
		drawText(sheet, x0, y0+swatchHeight+lineHeight-2, s.Label)
	}
	return sheet
}

// drawText draws s in black with its baseline at y.
func drawText(dst draw.Image, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: sheetFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

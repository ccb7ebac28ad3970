package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

func TestEncodeImage(t *testing.T) {
	img := createInMemoryImage(12, 8, color.RGBA{120, 110, 100, 255})

	tests := []struct {
		format string
		mime   string
	}{
		{"jpeg", "image/jpeg"},
		{"JPG", "image/jpeg"},
		{"", "image/jpeg"},
		{"png", "image/png"},
		{".png", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res, err := EncodeImage(img, tt.format, 92)
			require.NoError(t, err)
			assert.Equal(t, tt.mime, res.MimeType)
			assert.Equal(t, 12, res.Width)
			assert.Equal(t, 8, res.Height)
			assert.True(t, strings.HasPrefix(res.DataURL(), "data:"+tt.mime+";base64,"))

			raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
			require.NoError(t, err)
			assert.Equal(t, res.SizeBytes, len(raw))

			decoded, err := imaging.Decode(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 12, 8), decoded.Bounds())
		})
	}
}

func TestEncodeImage_RoundTripsThroughDataURL(t *testing.T) {
	img := createPatternImage(10, 10)

	res, err := EncodeImage(img, "png", 0)
	require.NoError(t, err)

	back, err := DecodeDataURL(res.DataURL())
	require.NoError(t, err)
	assert.Equal(t, recolor.FromImage(img).Pix, recolor.FromImage(back).Pix)
}

func TestEncodeImage_Invalid(t *testing.T) {
	img := createInMemoryImage(2, 2, color.White)

	_, err := EncodeImage(img, "gif", 90)
	assert.Error(t, err)

	_, err = EncodeImage(img, "jpeg", 0)
	assert.Error(t, err)

	_, err = EncodeImage(img, "jpeg", 101)
	assert.Error(t, err)
}

func TestBoundSize(t *testing.T) {
	img := createInMemoryImage(400, 100, color.White)

	same, resized := BoundSize(img, 400)
	assert.False(t, resized)
	assert.True(t, same == img)

	_, resized = BoundSize(img, 0)
	assert.False(t, resized)

	small, resized := BoundSize(img, 200)
	assert.True(t, resized)
	assert.Equal(t, 200, small.Bounds().Dx())
	assert.Equal(t, 50, small.Bounds().Dy())
}

func TestCompareSheet(t *testing.T) {
	original := createInMemoryImage(40, 30, color.RGBA{200, 0, 0, 255})
	preview := createInMemoryImage(40, 30, color.RGBA{0, 0, 200, 255})
	swatches := []SheetSwatch{
		{Color: recolor.Color{R: 10, G: 20, B: 30}, Label: "Wall: #0A141E (SW)"},
		{Color: recolor.Color{R: 30, G: 30, B: 30}, Label: "Trim"},
	}

	sheet := CompareSheet(original, preview, swatches)
	l := layoutSheet(40, 30, swatches)
	assert.Equal(t, image.Rect(0, 0, l.width, l.height), sheet.Bounds())
	m := sheetMargin

	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, sheet.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{200, 0, 0, 255}, sheet.NRGBAAt(m+5, l.photosTop+5))
	assert.Equal(t, color.NRGBA{0, 0, 200, 255}, sheet.NRGBAAt(2*m+40+5, l.photosTop+5))

	require.Len(t, l.swatchX, 2)
	midY := l.swatchTop + swatchHeight/2
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, sheet.NRGBAAt(l.swatchX[0]+swatchWidth/2, midY))
	assert.Equal(t, color.NRGBA{30, 30, 30, 255}, sheet.NRGBAAt(l.swatchX[1]+swatchWidth/2, midY))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, sheet.NRGBAAt(l.swatchX[0], l.swatchTop), "swatch border")

	// a long label pushes the next swatch right
	assert.Greater(t, l.swatchX[1]-l.swatchX[0], swatchWidth+swatchGap)
}

func TestCompareSheet_DrawsText(t *testing.T) {
	sheet := CompareSheet(createInMemoryImage(40, 30, color.White), createInMemoryImage(40, 30, color.White), nil)

	// the title row must contain some dark pixels
	dark := 0
	for y := sheetMargin - lineHeight; y <= sheetMargin; y++ {
		for x := sheetMargin; x < sheetMargin+80; x++ {
			if sheet.NRGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	assert.Positive(t, dark)
}

func TestCompareSheet_ScalesPreview(t *testing.T) {
	original := createInMemoryImage(40, 30, color.White)
	preview := createInMemoryImage(20, 15, color.Black)

	sheet := CompareSheet(original, preview, nil)
	l := layoutSheet(40, 30, nil)
	assert.Equal(t, l.photosTop+30+sheetMargin, sheet.Bounds().Dy())
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, sheet.NRGBAAt(2*sheetMargin+40+20, l.photosTop+15))
}

func TestOverlayMask(t *testing.T) {
	img := createInMemoryImage(6, 6, color.RGBA{100, 100, 100, 255})
	m := recolor.NewMask(6, 6)
	for y := 1; y < 5; y++ {
		for x := 1; x < 5; x++ {
			m.Pix[y*6+x] = 255
		}
	}
	tint := recolor.Color{R: 255}

	out := OverlayMask(img, m, tint)
	assert.Equal(t, color.NRGBA{100, 100, 100, 255}, out.NRGBAAt(0, 0), "outside untouched")
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, out.NRGBAAt(1, 1), "boundary solid")
	assert.Equal(t, color.NRGBA{178, 50, 50, 255}, out.NRGBAAt(2, 2), "interior mixed")
}

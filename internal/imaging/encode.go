package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Output formats accepted by EncodeImage.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// EncodeResult carries an encoded image inline.
type EncodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	SizeBytes   int    `json:"size_bytes"`
}

// DataURL returns the image as a data: URL suitable for an <img> src.
func (r *EncodeResult) DataURL() string {
	return "data:" + r.MimeType + ";base64," + r.ImageBase64
}

// NormalizeFormat maps user spellings ("jpg", "JPEG", "png") to FormatJPEG or
// FormatPNG.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "jpg", "jpeg", "":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported output format %q (supported: jpeg, png)", format)
}

// EncodeImage encodes img as JPEG (with the given quality, 1-100) or PNG and
// returns it base64-encoded.
func EncodeImage(img image.Image, format string, quality int) (*EncodeResult, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mime := "image/png"
	if format == FormatJPEG {
		if quality < 1 || quality > 100 {
			return nil, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
		}
		mime = "image/jpeg"
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	} else {
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodeResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mime,
		SizeBytes:   buf.Len(),
	}, nil
}

// BoundSize downscales img so neither side exceeds maxDim, keeping the aspect
// ratio. It reports whether a resize happened. maxDim <= 0 disables the bound.
func BoundSize(img image.Image, maxDim int) (image.Image, bool) {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img, false
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), true
}

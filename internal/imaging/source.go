package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidDataURL is returned for strings that look like data URLs but
	// cannot be parsed.
	ErrInvalidDataURL = errors.New("invalid data URL")

	// ErrEmptySource is returned when no image source was given.
	ErrEmptySource = errors.New("empty image source")

	// ErrUnsupportedSource is returned for sources that are neither data
	// URLs nor local paths, such as http URLs.
	ErrUnsupportedSource = errors.New("unsupported image source")
)

// Decode reads an encoded image, applying the EXIF orientation if present.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// IsDataURL reports whether src uses the data: scheme.
func IsDataURL(src string) bool {
	return strings.HasPrefix(strings.TrimSpace(src), "data:")
}

// DecodeDataURL decodes an image carried in a data URL such as
// "data:image/jpeg;base64,/9j/4AAQ...". Payloads without the ;base64 marker
// are treated as percent-encoded bytes.
func DecodeDataURL(dataURL string) (image.Image, error) {
	payload, err := dataURLBytes(dataURL)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(payload))
}

func dataURLBytes(dataURL string) ([]byte, error) {
	s := strings.TrimSpace(dataURL)
	if !strings.HasPrefix(s, "data:") {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma separator", ErrInvalidDataURL)
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}

	if !strings.HasSuffix(strings.ToLower(header), ";base64") {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		return []byte(raw), nil
	}

	// browsers sometimes drop padding or wrap lines
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' {
			return -1
		}
		return r
	}, payload)
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: bad base64 payload: %v", ErrInvalidDataURL, err)
		}
	}
	return b, nil
}

// LoadSource decodes src, which is either a data URL or a file path.
// File paths are served through cache.
func LoadSource(cache *ImageCache, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, ErrEmptySource
	case IsDataURL(src):
		return DecodeDataURL(src)
	case isRemoteURL(src):
		return nil, fmt.Errorf("%w: %q (pass a data URL or a local path)", ErrUnsupportedSource, src)
	default:
		return cache.Load(src)
	}
}

func isRemoteURL(src string) bool {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return u.Scheme != "file"
}

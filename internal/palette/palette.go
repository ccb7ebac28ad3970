// Package palette parses and describes paint colors.
//
// Colors arrive as CSS-style hex strings from paint brand catalogs. ParseHex
// is lenient about formatting but strict about content; Inspect reports a
// color the way the recoloring engine sees it.
package palette

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// ErrInvalidColor is returned for strings that are not #RGB or #RRGGBB.
var ErrInvalidColor = errors.New("invalid color")

// ParseHex parses "#RRGGBB" or "#RGB". The leading '#' is optional, case is
// ignored and surrounding whitespace is trimmed.
func ParseHex(s string) (recolor.Color, error) {
	hex := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if (len(hex) != 3 && len(hex) != 6) || strings.Trim(hex, "0123456789abcdef") != "" {
		return recolor.Color{}, fmt.Errorf("%w: %q (want #RRGGBB or #RGB)", ErrInvalidColor, s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return recolor.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b := c.RGB255()
	return recolor.Color{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on error. Use it for constants.
func MustParseHex(s string) recolor.Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HCL is the cylindrical form of Lab: hue in degrees, chroma and lightness
// on the same 0-100 scale as recolor.Lab.
type HCL struct {
	H float64 `json:"h"`
	C float64 `json:"c"`
	L float64 `json:"l"`
}

// Swatch describes one paint color.
type Swatch struct {
	Hex string        `json:"hex"`
	RGB recolor.Color `json:"rgb"`
	Lab recolor.Lab   `json:"lab"`
	HCL HCL           `json:"hcl"`
}

// Inspect builds the Swatch for c.
func Inspect(c recolor.Color) Swatch {
	h, ch, l := toColorful(c).Hcl()
	return Swatch{
		Hex: c.Hex(),
		RGB: c,
		Lab: recolor.ToLab(c),
		HCL: HCL{H: h, C: ch * 100, L: l * 100},
	}
}

// DeltaE returns the CIEDE2000 difference between a and b on the usual
// scale, where about 1 is the smallest difference most people notice.
func DeltaE(a, b recolor.Color) float64 {
	return toColorful(a).DistanceCIEDE2000(toColorful(b)) * 100
}

func toColorful(c recolor.Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

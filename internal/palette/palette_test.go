package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want recolor.Color
	}{
		{"#FF0000", recolor.Color{R: 255}},
		{"#ff0000", recolor.Color{R: 255}},
		{"00ff00", recolor.Color{G: 255}},
		{"  #1E1E1E\n", recolor.Color{R: 30, G: 30, B: 30}},
		{"#abc", recolor.Color{R: 0xaa, G: 0xbb, B: 0xcc}},
		{"FFF", recolor.Color{R: 255, G: 255, B: 255}},
		{"#000000", recolor.Color{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12345", "#1234567", "#GGGGGG", "red", "#12 345", "##123456", "#ff00ff00"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseHex(in)
			assert.ErrorIs(t, err, ErrInvalidColor)
		})
	}
}

func TestMustParseHex(t *testing.T) {
	assert.Equal(t, recolor.Color{R: 1, G: 2, B: 3}, MustParseHex("#010203"))
	assert.Panics(t, func() { MustParseHex("nope") })
}

func TestInspect(t *testing.T) {
	s := Inspect(recolor.Color{R: 255})
	assert.Equal(t, "#FF0000", s.Hex)
	assert.InDelta(t, 53.24, s.Lab.L, 0.01)
	assert.InDelta(t, 80.09, s.Lab.A, 0.01)
	assert.InDelta(t, 67.20, s.Lab.B, 0.01)
	// HCL comes from an independent implementation; agree on lightness
	assert.InDelta(t, s.Lab.L, s.HCL.L, 0.1)
	assert.InDelta(t, 40, s.HCL.H, 1)
	assert.InDelta(t, 104.5, s.HCL.C, 0.5)
}

func TestInspect_Gray(t *testing.T) {
	s := Inspect(recolor.Color{R: 128, G: 128, B: 128})
	assert.InDelta(t, 0, s.Lab.A, 1e-9)
	assert.InDelta(t, 0, s.Lab.B, 1e-9)
	assert.InDelta(t, 0, s.HCL.C, 0.05)
}

func TestDeltaE(t *testing.T) {
	white := recolor.Color{R: 255, G: 255, B: 255}
	black := recolor.Color{}

	assert.InDelta(t, 0, DeltaE(white, white), 1e-9)
	assert.InDelta(t, 100, DeltaE(white, black), 0.1)

	near := DeltaE(recolor.Color{R: 120, G: 110, B: 100}, recolor.Color{R: 121, G: 110, B: 100})
	assert.Less(t, near, 1.0)
	assert.Equal(t, DeltaE(black, white), DeltaE(white, black))
}

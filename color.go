package wgrender

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// Color is a clear color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1.0}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB8 creates an opaque color from 8-bit components.
func RGB8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// Hex creates a color from a hex string, returning opaque black for malformed
// input. Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or
// without a leading '#'.
func Hex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		return Color{R: 0, G: 0, B: 0, A: 1}
	}
	return c
}

// ParseHex is like Hex but reports malformed input.
func ParseHex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b, a uint32
	a = 255

	var ok bool
	switch len(s) {
	case 3: // RGB
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b) && parseHex(s[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
	case 8: // RRGGBBAA
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b) && parseHex(s[6:8], &a)
	}
	if !ok {
		return Color{}, fmt.Errorf("wgrender: invalid hex color %q", hex)
	}

	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// parseHex parses s into val and reports whether every digit was valid.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Valid reports whether every component is within [0, 1].
func (c Color) Valid() bool {
	for _, v := range [...]float64{c.R, c.G, c.B, c.A} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Clamp restricts every component to [0, 1]. NaN becomes 0.
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// GPU converts the color to the clear value of a render pass.
func (c Color) GPU() gputypes.Color {
	return gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String returns the color as "#rrggbbaa".
func (c Color) String() string {
	cc := c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x%02x",
		uint8(math.Round(cc.R*255)), uint8(math.Round(cc.G*255)),
		uint8(math.Round(cc.B*255)), uint8(math.Round(cc.A*255)))
}

// clamp01 restricts a value to [0, 1] range.
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Common colors
var (
	Black          = RGB(0, 0, 0)
	White          = RGB(1, 1, 1)
	Transparent    = RGBA(0, 0, 0, 0)
	CornflowerBlue = RGB8(100, 149, 237)
)

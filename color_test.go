package wgrender

import (
	"math"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000", Black},
		{"fff", White},
		{"#ff000080", Color{R: 1, A: 128.0 / 255}},
		{"6495ED", CornflowerBlue},
		{"#6495edff", CornflowerBlue},
		{"#0000", Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if err != nil {
				t.Fatalf("ParseHex(%q) failed: %v", tt.in, err)
			}
			if !closeColor(got, tt.want) {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "12", "#12345", "zzzzzz", "#12345g"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) succeeded, want error", in)
		}
		if got := Hex(in); got != Black {
			t.Errorf("Hex(%q) = %+v, want opaque black", in, got)
		}
	}
}

func TestCornflowerBlue(t *testing.T) {
	c := CornflowerBlue
	if math.Abs(c.R-0.392) > 0.001 || math.Abs(c.G-0.584) > 0.001 || math.Abs(c.B-0.929) > 0.001 || c.A != 1 {
		t.Errorf("CornflowerBlue = %+v", c)
	}
	if got := c.String(); got != "#6495edff" {
		t.Errorf("String() = %q, want #6495edff", got)
	}
}

func TestColorValid(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want bool
	}{
		{"black", Black, true},
		{"transparent", Transparent, true},
		{"over one", RGB(1.5, 0, 0), false},
		{"negative alpha", RGBA(0, 0, 0, -0.1), false},
		{"nan", RGB(math.NaN(), 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorClamp(t *testing.T) {
	got := RGBA(2, -1, math.NaN(), 0.5).Clamp()
	want := Color{R: 1, G: 0, B: 0, A: 0.5}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
	if !got.Valid() {
		t.Error("clamped color is not valid")
	}
}

func TestColorGPU(t *testing.T) {
	g := RGBA(0.1, 0.2, 0.3, 0.4).GPU()
	if g.R != 0.1 || g.G != 0.2 || g.B != 0.3 || g.A != 0.4 {
		t.Errorf("GPU() = %+v", g)
	}
}

func closeColor(a, b Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

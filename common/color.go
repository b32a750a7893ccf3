package common

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with components in [0, 1].
type Color [3]float32

// White is the neutral light color.
var White = Color{1, 1, 1}

// ParseColor parses a "#rrggbb" hex string into a Color.
//
// Parameters:
//   - hex: the color in "#rrggbb" or "#rgb" notation
//
// Returns:
//   - Color: the parsed color
//   - error: a ConfigurationError if the string is not a valid hex color
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, &ConfigurationError{Field: "color", Reason: fmt.Sprintf("invalid hex color %q", hex)}
	}
	return Color{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// ParsePalette parses an ordered list of hex colors.
// An empty list is rejected since every palette consumer needs at least one color.
//
// Parameters:
//   - field: the configuration field name used in error messages
//   - hexes: the colors in hex notation
//
// Returns:
//   - []Color: the parsed colors, in order
//   - error: a ConfigurationError if the list is empty or any entry is invalid
func ParsePalette(field string, hexes []string) ([]Color, error) {
	if len(hexes) == 0 {
		return nil, &ConfigurationError{Field: field, Reason: "palette must contain at least one color"}
	}
	out := make([]Color, len(hexes))
	for i, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return nil, &ConfigurationError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: fmt.Sprintf("invalid hex color %q", h)}
		}
		out[i] = c
	}
	return out, nil
}

// MustParseColor is ParseColor for compile-time constants; it panics on invalid input.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp blends c toward o by t in RGB space.
func (c Color) Lerp(o Color, t float32) Color {
	b := c.colorful().BlendRgb(o.colorful(), float64(t))
	return Color{float32(b.R), float32(b.G), float32(b.B)}
}

// Scale multiplies every component by f.
func (c Color) Scale(f float32) Color {
	return Color{c[0] * f, c[1] * f, c[2] * f}
}

// Hex returns the "#rrggbb" form of the color, clamping out-of-range components.
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
}

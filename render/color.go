package render

import (
	"fmt"
	"strings"
)

// ParseHexColor parses a #RGB or #RRGGBB hex string into an RGB color
// with components in [0,1].
func ParseHexColor(hex string) (RGB, error) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		r, okR := parseHexDigit(hex[0])
		g, okG := parseHexDigit(hex[1])
		b, okB := parseHexDigit(hex[2])
		if !okR || !okG || !okB {
			return RGB{}, fmt.Errorf("invalid hex color %q", "#"+hex)
		}
		// Multiply by 17 to expand 0-15 to 0-255.
		return RGB{
			float32(r*17) / 255.0,
			float32(g*17) / 255.0,
			float32(b*17) / 255.0,
		}, nil
	case 6:
		r, okR := parseHexByte(hex[0:2])
		g, okG := parseHexByte(hex[2:4])
		b, okB := parseHexByte(hex[4:6])
		if !okR || !okG || !okB {
			return RGB{}, fmt.Errorf("invalid hex color %q", "#"+hex)
		}
		return RGB{
			float32(r) / 255.0,
			float32(g) / 255.0,
			float32(b) / 255.0,
		}, nil
	default:
		return RGB{}, fmt.Errorf("invalid hex color %q", "#"+hex)
	}
}

// FormatHexColor formats an RGB color as a #RRGGBB hex string,
// clamping components to [0,1].
func FormatHexColor(c RGB) string {
	return fmt.Sprintf("#%02X%02X%02X",
		uint8(clamp01(c[0])*255+0.5),
		uint8(clamp01(c[1])*255+0.5),
		uint8(clamp01(c[2])*255+0.5))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseHexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func parseHexByte(s string) (uint8, bool) {
	var result uint8
	for i := 0; i < len(s); i++ {
		d, ok := parseHexDigit(s[i])
		if !ok {
			return 0, false
		}
		result = result*16 + d
	}
	return result, true
}

package branding

import "strings"

// parseHex returns the canonical #RRGGBB form of s, or false
func parseHex(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return "", false
		}
	}
	return "#" + strings.ToUpper(s), true
}

// NormalizeColor returns input as #RRGGBB in upper case. A nil, empty or
// malformed input yields DefaultAccentColor.
func NormalizeColor(input *string) string {
	if input == nil {
		return DefaultAccentColor
	}
	if c, ok := parseHex(*input); ok {
		return c
	}
	return DefaultAccentColor
}

// RGB splits a normalized color into its components. Malformed input maps to
// the default color.
func RGB(color string) (r, g, b int) {
	c, ok := parseHex(color)
	if !ok {
		c = DefaultAccentColor
	}
	return hexByte(c[1:3]), hexByte(c[3:5]), hexByte(c[5:7])
}

func hexByte(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v <<= 4
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		}
	}
	return v
}

package config

import (
	"strconv"
	"strings"

	"github.com/phroun/purfecterm"
)

// ParseColor parses the color notations the key-file accepts: #RGB and
// #RRGGBB via the widget library, #RRRRGGGGBBBB with the high byte of
// each 16-bit channel kept, and the rgb()/rgba() functional forms. The
// rgba alpha is validated and then dropped; the renderer has no
// translucency.
func ParseColor(s string) (purfecterm.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		body := s[1:]
		if !isHex(body) {
			return purfecterm.Color{}, false
		}
		switch len(body) {
		case 3, 6:
			return purfecterm.ParseHexColor(s)
		case 12:
			return parseHex16(body), true
		}
		return purfecterm.Color{}, false
	}
	return parseRGBFunc(s)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

func parseHex16(body string) purfecterm.Color {
	r, _ := strconv.ParseUint(body[0:4], 16, 16)
	g, _ := strconv.ParseUint(body[4:8], 16, 16)
	b, _ := strconv.ParseUint(body[8:12], 16, 16)
	return purfecterm.TrueColor(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func parseRGBFunc(s string) (purfecterm.Color, bool) {
	lower := strings.ToLower(s)
	var body string
	hasAlpha := false
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		body = s[len("rgba(") : len(s)-1]
		hasAlpha = true
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return purfecterm.Color{}, false
	}

	parts := strings.Split(body, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return purfecterm.Color{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return purfecterm.Color{}, false
		}
		ch[i] = uint8(v)
	}
	if hasAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return purfecterm.Color{}, false
		}
	}
	return purfecterm.TrueColor(ch[0], ch[1], ch[2]), true
}

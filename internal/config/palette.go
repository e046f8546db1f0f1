package config

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/phroun/purfecterm"
)

// Palette256 returns the fixed 256-entry ANSI-compatible palette: the 16
// classic colors, the 6x6x6 color cube, and the grayscale ramp.
func Palette256() [256]purfecterm.Color {
	var p [256]purfecterm.Color
	for i := range p {
		p[i] = paletteEntry(i)
	}
	return p
}

// paletteEntry computes one ramp entry. Indexes 0-15 set each channel to
// 0xc0 when its color bit (1=red, 2=green, 4=blue) is on, with 0x3f
// added for the bright half. 16-231 is the cube with components
// digit*40+55 (0 stays 0). 232-255 is the gray ramp 8+(i-232)*10.
func paletteEntry(i int) purfecterm.Color {
	switch {
	case i < 16:
		var bright uint8
		if i > 7 {
			bright = 0x3f
		}
		return purfecterm.TrueColor(
			classicChannel(i&1 != 0, bright),
			classicChannel(i&2 != 0, bright),
			classicChannel(i&4 != 0, bright),
		)
	case i < 232:
		j := i - 16
		return purfecterm.TrueColor(cubeChannel(j/36), cubeChannel((j/6)%6), cubeChannel(j%6))
	default:
		shade := uint8(8 + (i-232)*10)
		return purfecterm.TrueColor(shade, shade, shade)
	}
}

func classicChannel(on bool, bright uint8) uint8 {
	if on {
		return 0xc0 + bright
	}
	return bright
}

func cubeChannel(digit int) uint8 {
	if digit == 0 {
		return 0
	}
	return uint8(digit*40 + 55)
}

// applyColors folds the [colors] section into the record: colorN keys
// override palette entries, the named keys shape the widget scheme.
// Unparseable values are logged and skipped.
func applyColors(cfg *Config, colors map[string]string) {
	highOverrides := 0
	for key, raw := range colors {
		rest, isIndexed := strings.CutPrefix(key, "color")
		if !isIndexed {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || n > 255 {
			slog.Warn("unknown color key", "key", key)
			continue
		}
		c, ok := ParseColor(raw)
		if !ok {
			slog.Warn("invalid color string", "key", key, "value", raw)
			continue
		}
		cfg.Palette[n] = c
		if n >= 16 && c != paletteEntry(n) {
			highOverrides++
		}
	}
	if highOverrides > 0 {
		slog.Warn("colorN overrides above 15 are not applied, the renderer resolves those indexes itself",
			"count", highOverrides)
	}

	cfg.Scheme = buildScheme(&cfg.Palette, colors)
}

// buildScheme maps the palette head and the named [colors] keys onto the
// widget's color scheme. The light variant carries swapped foreground
// and background so reverse-video mode behaves like the classic fg/bg
// swap rather than a separate theme.
func buildScheme(palette *[256]purfecterm.Color, colors map[string]string) purfecterm.ColorScheme {
	scheme := purfecterm.DefaultColorScheme()
	scheme.DarkPalette = append([]purfecterm.Color(nil), palette[:16]...)
	scheme.LightPalette = append([]purfecterm.Color(nil), palette[:16]...)

	if c, ok := namedColor(colors, "foreground"); ok {
		scheme.DarkForeground = c
		scheme.LightBackground = c
	}
	if c, ok := namedColor(colors, "background"); ok {
		scheme.DarkBackground = c
		scheme.LightForeground = c
	}
	if c, ok := namedColor(colors, "cursor"); ok {
		scheme.Cursor = c
	}
	if c, ok := namedColor(colors, "highlight"); ok {
		scheme.Selection = c
	}

	// The renderer has no separate bold or cursor-text colors; the keys
	// are still validated so existing configs get their diagnostics.
	if _, ok := namedColor(colors, "foreground_bold"); ok {
		slog.Debug("foreground_bold has no renderer equivalent")
	}
	if _, ok := namedColor(colors, "cursor_foreground"); ok {
		slog.Debug("cursor_foreground has no renderer equivalent")
	}

	return scheme
}

func namedColor(colors map[string]string, key string) (purfecterm.Color, bool) {
	raw, ok := colors[key]
	if !ok {
		return purfecterm.Color{}, false
	}
	c, ok := ParseColor(raw)
	if !ok {
		slog.Warn("invalid color string", "key", key, "value", raw)
		return purfecterm.Color{}, false
	}
	return c, true
}

// Package config loads whisker's key-file configuration.
//
// The file is TOML with two sections: [options] for behavior, font,
// cursor, and browser settings, and [colors] for the palette and scheme
// colors (colorN, foreground, background, cursor, highlight). Candidate
// locations are searched in priority order and the first readable file
// wins; when none loads, stock defaults apply. Loading never fails hard:
// unreadable files, bad values, and unknown colors are logged and
// skipped so a typo can't take the terminal down with it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/phroun/purfecterm"
)

// Cursor values mirror the buffer's SetCursorStyle arguments.
// CursorUnset leaves the widget's current style alone.
const (
	CursorUnset = -1

	ShapeBlock     = 0
	ShapeUnderline = 1
	ShapeBar       = 2

	BlinkOff  = 0
	BlinkSlow = 1
	BlinkFast = 2
)

const (
	DefaultFontFamily = "Monospace"
	DefaultFontSize   = 14

	defaultScrollback = 10000
	defaultBrowser    = "xdg-open"

	appDirName     = "whisker"
	configFileName = "config.toml"
)

// Config is the one record the front-end carries: behavior toggles, the
// resolved browser command, font and cursor settings, and the color
// scheme handed to the terminal widget. It is built once at startup and
// rebuilt in place on every reload.
type Config struct {
	FontFamily          string
	FontSize            int
	FontUnicodeFallback string
	FontCJKFallback     string

	ScrollbackLines   int
	ScrollOnOutput    bool
	ScrollOnKeystroke bool
	AudibleBell       bool
	MouseAutohide     bool
	AllowBold         bool
	UrgentOnBell      bool
	ClickableURL      bool
	AutoReload        bool

	Browser string

	CursorShape int
	CursorBlink int

	Scheme purfecterm.ColorScheme

	// Palette is the full 256-entry table: the generated ramp with any
	// colorN overrides applied. Entries 0-15 feed the scheme; the
	// renderer resolves higher indexes from the standard ramp itself.
	Palette [256]purfecterm.Color

	// MatchTag is the URL matcher registration handle, -1 while no
	// matcher is installed. The app owns registration; the tag lives
	// here so a reload with clickable_url off can tear the matcher down.
	MatchTag int

	// Path is the file this record was loaded from, empty when running
	// on stock defaults.
	Path string
}

// Defaults returns the settings used when no config file is found. The
// browser command still resolves through $BROWSER.
func Defaults() Config {
	cfg := Config{
		FontFamily:        DefaultFontFamily,
		FontSize:          DefaultFontSize,
		ScrollbackLines:   defaultScrollback,
		ScrollOnKeystroke: true,
		AllowBold:         true,
		UrgentOnBell:      true,
		ClickableURL:      true,
		Browser:           resolveBrowser(""),
		CursorShape:       CursorUnset,
		CursorBlink:       CursorUnset,
		Palette:           Palette256(),
		MatchTag:          -1,
	}
	cfg.Scheme = buildScheme(&cfg.Palette, nil)
	return cfg
}

// SearchPaths returns the candidate config locations in priority order:
// the explicit path when given, then the user config dir, then each
// system config dir from $XDG_CONFIG_DIRS (default /etc/xdg).
func SearchPaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appDirName, configFileName))
	}
	dirs := os.Getenv("XDG_CONFIG_DIRS")
	if dirs == "" {
		dirs = "/etc/xdg"
	}
	for _, dir := range strings.Split(dirs, ":") {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, appDirName, configFileName))
	}
	return paths
}

// Load parses the first config file it can read from the search paths.
// The boolean reports whether any file loaded; when false the returned
// record carries the stock defaults, and a caller reloading should keep
// its current settings instead.
func Load(explicit string) (Config, bool) {
	for _, path := range SearchPaths(explicit) {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.Warn("config unreadable", "path", path, "error", err)
			}
			continue
		}
		cfg, err := Parse(data)
		if err != nil {
			slog.Warn("config ignored", "path", path, "error", err)
			continue
		}
		cfg.Path = path
		return cfg, true
	}
	return Defaults(), false
}

// Parse decodes one config file into a full record, starting from the
// defaults so absent keys keep their stock values.
func Parse(data []byte) (Config, error) {
	var raw struct {
		Options struct {
			Font                *string `toml:"font"`
			FontUnicodeFallback *string `toml:"font_unicode_fallback"`
			FontCJKFallback     *string `toml:"font_cjk_fallback"`
			ScrollbackLines     *int    `toml:"scrollback_lines"`
			ScrollOnOutput      *bool   `toml:"scroll_on_output"`
			ScrollOnKeystroke   *bool   `toml:"scroll_on_keystroke"`
			AudibleBell         *bool   `toml:"audible_bell"`
			MouseAutohide       *bool   `toml:"mouse_autohide"`
			AllowBold           *bool   `toml:"allow_bold"`
			UrgentOnBell        *bool   `toml:"urgent_on_bell"`
			ClickableURL        *bool   `toml:"clickable_url"`
			AutoReload          *bool   `toml:"auto_reload"`
			Browser             *string `toml:"browser"`
			CursorBlink         *string `toml:"cursor_blink"`
			CursorShape         *string `toml:"cursor_shape"`
			BlinkMode           *string `toml:"blink_mode"`
		} `toml:"options"`
		Colors map[string]string `toml:"colors"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Defaults()
	opt := raw.Options

	if opt.Font != nil {
		cfg.FontFamily, cfg.FontSize = parseFont(*opt.Font, cfg.FontFamily, cfg.FontSize)
	}
	if opt.FontUnicodeFallback != nil {
		cfg.FontUnicodeFallback = strings.TrimSpace(*opt.FontUnicodeFallback)
	}
	if opt.FontCJKFallback != nil {
		cfg.FontCJKFallback = strings.TrimSpace(*opt.FontCJKFallback)
	}
	if opt.ScrollbackLines != nil && *opt.ScrollbackLines > 0 {
		cfg.ScrollbackLines = *opt.ScrollbackLines
	}
	if opt.ScrollOnOutput != nil {
		cfg.ScrollOnOutput = *opt.ScrollOnOutput
	}
	if opt.ScrollOnKeystroke != nil {
		cfg.ScrollOnKeystroke = *opt.ScrollOnKeystroke
	}
	if opt.AudibleBell != nil {
		cfg.AudibleBell = *opt.AudibleBell
	}
	if opt.MouseAutohide != nil {
		cfg.MouseAutohide = *opt.MouseAutohide
	}
	if opt.AllowBold != nil {
		cfg.AllowBold = *opt.AllowBold
		if !cfg.AllowBold {
			slog.Debug("allow_bold=false has no renderer equivalent, bold stays on")
		}
	}
	if opt.UrgentOnBell != nil {
		cfg.UrgentOnBell = *opt.UrgentOnBell
	}
	if opt.ClickableURL != nil {
		cfg.ClickableURL = *opt.ClickableURL
	}
	if opt.AutoReload != nil {
		cfg.AutoReload = *opt.AutoReload
	}

	configured := ""
	if opt.Browser != nil {
		configured = strings.TrimSpace(*opt.Browser)
	}
	cfg.Browser = resolveBrowser(configured)

	if opt.CursorBlink != nil {
		cfg.CursorBlink = parseCursorBlink(*opt.CursorBlink)
	}
	if opt.CursorShape != nil {
		cfg.CursorShape = parseCursorShape(*opt.CursorShape)
	}

	applyColors(&cfg, raw.Colors)
	if opt.BlinkMode != nil {
		cfg.Scheme.BlinkMode = purfecterm.ParseBlinkMode(*opt.BlinkMode)
	}

	return cfg, nil
}

// parseFont splits a Pango-style "Family Size" description. The size is
// the trailing token when it parses as a positive number; otherwise the
// whole string is the family and the previous size carries over. The
// family may be a comma-separated fallback list, which the widget
// resolves itself.
func parseFont(desc, family string, size int) (string, int) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return family, size
	}
	if i := strings.LastIndexByte(desc, ' '); i >= 0 {
		if pts, err := strconv.ParseFloat(desc[i+1:], 64); err == nil && pts > 0 {
			return strings.TrimSpace(desc[:i]), int(math.Round(pts))
		}
	}
	return desc, size
}

// resolveBrowser picks the URL opener: the configured command, then
// $BROWSER, then xdg-open.
func resolveBrowser(configured string) string {
	if configured != "" {
		return configured
	}
	if env := os.Getenv("BROWSER"); env != "" {
		return env
	}
	return defaultBrowser
}

func parseCursorShape(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block":
		return ShapeBlock
	case "underline":
		return ShapeUnderline
	case "ibeam":
		return ShapeBar
	}
	slog.Warn("unknown cursor_shape", "value", s)
	return CursorUnset
}

func parseCursorBlink(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return BlinkOff
	// The buffer has no toolkit-settings blink rate, so "system" gets
	// the stock slow blink.
	case "on", "system":
		return BlinkSlow
	}
	slog.Warn("unknown cursor_blink", "value", s)
	return CursorUnset
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points every config search location at empty temp dirs so a
// developer's real config can't leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	t.Setenv("BROWSER", "")
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, appDirName, configFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	isolate(t)

	cfg, loaded := Load("")
	if loaded {
		t.Fatal("Load reported a file with no config present")
	}
	if cfg.FontFamily != DefaultFontFamily || cfg.FontSize != DefaultFontSize {
		t.Fatalf("font = %q/%d, want %q/%d", cfg.FontFamily, cfg.FontSize, DefaultFontFamily, DefaultFontSize)
	}
	if cfg.ScrollbackLines != 10000 {
		t.Fatalf("ScrollbackLines = %d, want 10000", cfg.ScrollbackLines)
	}
	if !cfg.ScrollOnKeystroke || cfg.ScrollOnOutput {
		t.Fatalf("scroll defaults = keystroke %v output %v, want true false", cfg.ScrollOnKeystroke, cfg.ScrollOnOutput)
	}
	if !cfg.UrgentOnBell || !cfg.ClickableURL {
		t.Fatalf("bell/url defaults = %v/%v, want true/true", cfg.UrgentOnBell, cfg.ClickableURL)
	}
	if cfg.AudibleBell || cfg.MouseAutohide || cfg.AutoReload {
		t.Fatal("audible_bell, mouse_autohide and auto_reload should default off")
	}
	if cfg.Browser != "xdg-open" {
		t.Fatalf("Browser = %q, want %q", cfg.Browser, "xdg-open")
	}
	if cfg.CursorShape != CursorUnset || cfg.CursorBlink != CursorUnset {
		t.Fatalf("cursor = %d/%d, want unset", cfg.CursorShape, cfg.CursorBlink)
	}
	if cfg.MatchTag != -1 {
		t.Fatalf("MatchTag = %d, want -1", cfg.MatchTag)
	}
	if cfg.Path != "" {
		t.Fatalf("Path = %q, want empty", cfg.Path)
	}
}

func TestLoad_ExplicitPathWinsOverUserDir(t *testing.T) {
	isolate(t)
	userDir := os.Getenv("XDG_CONFIG_HOME")
	writeConfig(t, userDir, "[options]\nscrollback_lines = 111\n")

	explicit := filepath.Join(t.TempDir(), "mine.toml")
	if err := os.WriteFile(explicit, []byte("[options]\nscrollback_lines = 222\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loaded := Load(explicit)
	if !loaded {
		t.Fatal("Load found no config")
	}
	if cfg.ScrollbackLines != 222 {
		t.Fatalf("ScrollbackLines = %d, want 222", cfg.ScrollbackLines)
	}
	if cfg.Path != explicit {
		t.Fatalf("Path = %q, want %q", cfg.Path, explicit)
	}
}

func TestLoad_UserDirWinsOverSystemDirs(t *testing.T) {
	isolate(t)
	writeConfig(t, os.Getenv("XDG_CONFIG_HOME"), "[options]\nscrollback_lines = 111\n")
	writeConfig(t, os.Getenv("XDG_CONFIG_DIRS"), "[options]\nscrollback_lines = 333\n")

	cfg, loaded := Load("")
	if !loaded || cfg.ScrollbackLines != 111 {
		t.Fatalf("loaded=%v ScrollbackLines=%d, want true 111", loaded, cfg.ScrollbackLines)
	}
}

func TestLoad_MalformedFileFallsThrough(t *testing.T) {
	isolate(t)
	broken := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(broken, []byte("[options\nnope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	good := writeConfig(t, os.Getenv("XDG_CONFIG_HOME"), "[options]\nscrollback_lines = 444\n")

	cfg, loaded := Load(broken)
	if !loaded {
		t.Fatal("Load should fall through to the next candidate")
	}
	if cfg.Path != good || cfg.ScrollbackLines != 444 {
		t.Fatalf("Path=%q ScrollbackLines=%d, want %q 444", cfg.Path, cfg.ScrollbackLines, good)
	}
}

func TestParse_Options(t *testing.T) {
	isolate(t)
	cfg, err := Parse([]byte(`
[options]
font = "Fira Code 12"
font_unicode_fallback = "Noto Sans Symbols"
font_cjk_fallback = "Noto Sans CJK SC"
scrollback_lines = 5000
scroll_on_output = true
scroll_on_keystroke = false
audible_bell = true
mouse_autohide = true
urgent_on_bell = false
clickable_url = false
auto_reload = true
browser = "firefox"
cursor_blink = "off"
cursor_shape = "underline"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.FontFamily != "Fira Code" || cfg.FontSize != 12 {
		t.Fatalf("font = %q/%d, want Fira Code/12", cfg.FontFamily, cfg.FontSize)
	}
	if cfg.FontUnicodeFallback != "Noto Sans Symbols" || cfg.FontCJKFallback != "Noto Sans CJK SC" {
		t.Fatalf("fallbacks = %q/%q", cfg.FontUnicodeFallback, cfg.FontCJKFallback)
	}
	if cfg.ScrollbackLines != 5000 {
		t.Fatalf("ScrollbackLines = %d, want 5000", cfg.ScrollbackLines)
	}
	if !cfg.ScrollOnOutput || cfg.ScrollOnKeystroke {
		t.Fatalf("scroll = output %v keystroke %v, want true false", cfg.ScrollOnOutput, cfg.ScrollOnKeystroke)
	}
	if !cfg.AudibleBell || !cfg.MouseAutohide || !cfg.AutoReload {
		t.Fatal("audible_bell, mouse_autohide and auto_reload should be on")
	}
	if cfg.UrgentOnBell || cfg.ClickableURL {
		t.Fatal("urgent_on_bell and clickable_url should be off")
	}
	if cfg.Browser != "firefox" {
		t.Fatalf("Browser = %q, want firefox", cfg.Browser)
	}
	if cfg.CursorBlink != BlinkOff || cfg.CursorShape != ShapeUnderline {
		t.Fatalf("cursor = blink %d shape %d, want %d %d", cfg.CursorBlink, cfg.CursorShape, BlinkOff, ShapeUnderline)
	}
}

func TestParse_AbsentKeysKeepDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Parse([]byte("[options]\nfont = \"Monospace 10\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.ScrollOnKeystroke {
		t.Fatal("scroll_on_keystroke should stay true when absent")
	}
	if !cfg.UrgentOnBell || !cfg.ClickableURL || !cfg.AllowBold {
		t.Fatal("true-by-default toggles lost their defaults")
	}
	if cfg.FontSize != 10 {
		t.Fatalf("FontSize = %d, want 10", cfg.FontSize)
	}
}

func TestParse_CursorKeywords(t *testing.T) {
	isolate(t)
	for input, want := range map[string]int{
		"block":     ShapeBlock,
		"underline": ShapeUnderline,
		"IBeam":     ShapeBar,
		"wedge":     CursorUnset,
	} {
		if got := parseCursorShape(input); got != want {
			t.Fatalf("parseCursorShape(%q) = %d, want %d", input, got, want)
		}
	}
	for input, want := range map[string]int{
		"off":    BlinkOff,
		"on":     BlinkSlow,
		"System": BlinkSlow,
		"maybe":  CursorUnset,
	} {
		if got := parseCursorBlink(input); got != want {
			t.Fatalf("parseCursorBlink(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestParse_BrowserFallsBackToEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BROWSER", "qutebrowser")

	cfg, err := Parse([]byte("[options]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Browser != "qutebrowser" {
		t.Fatalf("Browser = %q, want qutebrowser", cfg.Browser)
	}

	cfg, err = Parse([]byte("[options]\nbrowser = \"surf\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Browser != "surf" {
		t.Fatalf("Browser = %q, want surf", cfg.Browser)
	}
}

func TestParseFont(t *testing.T) {
	isolate(t)
	family, size := parseFont("Terminus 8", DefaultFontFamily, DefaultFontSize)
	if family != "Terminus" || size != 8 {
		t.Fatalf("got %q/%d, want Terminus/8", family, size)
	}

	family, size = parseFont("DejaVu Sans Mono 12.5", DefaultFontFamily, DefaultFontSize)
	if family != "DejaVu Sans Mono" || size != 13 {
		t.Fatalf("got %q/%d, want DejaVu Sans Mono/13", family, size)
	}

	// No trailing size: the family is the whole string.
	family, size = parseFont("Monospace", DefaultFontFamily, 11)
	if family != "Monospace" || size != 11 {
		t.Fatalf("got %q/%d, want Monospace/11", family, size)
	}

	family, size = parseFont("  ", "Keep", 9)
	if family != "Keep" || size != 9 {
		t.Fatalf("got %q/%d, want Keep/9", family, size)
	}
}

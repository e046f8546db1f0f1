package term

import (
	"strings"
	"testing"
)

func TestScanBellInGround(t *testing.T) {
	bells := 0
	s := &StreamScanner{Bell: func() { bells++ }}

	s.Scan([]byte("hello\aworld\a"))
	if bells != 2 {
		t.Fatalf("bells = %d, want 2", bells)
	}
}

func TestScanBellAcrossChunks(t *testing.T) {
	bells := 0
	s := &StreamScanner{Bell: func() { bells++ }}

	s.Scan([]byte("par"))
	s.Scan([]byte("\a"))
	s.Scan([]byte("tial"))
	if bells != 1 {
		t.Fatalf("bells = %d, want 1", bells)
	}
}

func TestScanBellInsideCSI(t *testing.T) {
	bells := 0
	s := &StreamScanner{Bell: func() { bells++ }}

	// C0 controls execute in the middle of a control sequence.
	s.Scan([]byte("\x1b[31\a;1mred"))
	if bells != 1 {
		t.Fatalf("bells = %d, want 1", bells)
	}
}

func TestScanOSCTerminatorIsNotBell(t *testing.T) {
	bells := 0
	s := &StreamScanner{Bell: func() { bells++ }}

	s.Scan([]byte("\x1b]0;quiet title\x07"))
	if bells != 0 {
		t.Fatalf("bells = %d, want 0", bells)
	}
}

func TestScanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"\x1b]0;hello\x07", "hello"},
		{"\x1b]2;two words\x07", "two words"},
		{"\x1b]0;st terminated\x1b\\", "st terminated"},
		{"\x1b]0;first\x07\x1b]2;second\x07", "second"},
		{"\x1b]0;\x07", ""},
	}
	for _, tt := range tests {
		var got string
		titles := 0
		s := &StreamScanner{Title: func(title string) {
			got = title
			titles++
		}}
		s.Scan([]byte(tt.in))
		if titles == 0 {
			t.Fatalf("Scan(%q) produced no title, want %q", tt.in, tt.want)
		}
		if got != tt.want {
			t.Fatalf("Scan(%q) title = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScanTitleAcrossChunks(t *testing.T) {
	var got string
	s := &StreamScanner{Title: func(title string) { got = title }}

	s.Scan([]byte("\x1b]"))
	s.Scan([]byte("2;sp"))
	s.Scan([]byte("lit"))
	s.Scan([]byte("\x07"))
	if got != "split" {
		t.Fatalf("title = %q, want %q", got, "split")
	}
}

func TestScanIgnoresOtherOSCCommands(t *testing.T) {
	titles := 0
	s := &StreamScanner{Title: func(string) { titles++ }}

	// OSC 1 sets the icon name, OSC 112 resets the cursor color;
	// neither is a window title.
	s.Scan([]byte("\x1b]1;icon\x07\x1b]112\x07\x1b]112;\x07"))
	if titles != 0 {
		t.Fatalf("titles = %d, want 0", titles)
	}
}

func TestScanDropsRunawayTitle(t *testing.T) {
	titles := 0
	s := &StreamScanner{Title: func(string) { titles++ }}

	s.Scan([]byte("\x1b]0;"))
	s.Scan([]byte(strings.Repeat("x", maxTitle+1)))
	s.Scan([]byte("\x07"))
	if titles != 0 {
		t.Fatalf("titles = %d, want 0", titles)
	}

	// The scanner recovers for the next title.
	var got string
	s.Title = func(title string) { got = title }
	s.Scan([]byte("\x1b]0;short\x07"))
	if got != "short" {
		t.Fatalf("title after overflow = %q, want %q", got, "short")
	}
}

func TestScanSanitizesTitle(t *testing.T) {
	var got string
	s := &StreamScanner{Title: func(title string) { got = title }}

	s.Scan([]byte{0x1b, ']', '0', ';', 'o', 0xff, 'k', 0x07})
	if got != "o�k" {
		t.Fatalf("title = %q, want %q", got, "o�k")
	}
}

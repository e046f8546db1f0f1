package app

import (
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/phroun/purfecterm"
)

// urlPattern is the classic terminal URL matcher: scheme, optional
// user:password, host, optional port, optional path. The final negated
// class refuses to end a match on closing brackets or sentence
// punctuation, so "see http://example.com." matches without the
// trailing dot.
var urlPattern = regexp.MustCompile(
	`(?:news:|telnet:|nntp:|file:/|https?:|ftps?:|sftp:|webcal:|irc:|ircs:)//` +
		`(?:[-[:alnum:]]+(?:[-[:alnum:],?;.:/!%$^*&~"#']+)?@)?` +
		`[-[:alnum:]]+(?:\.[-[:alnum:]]+)*` +
		`(?::[0-9]{1,5})?` +
		`(?:(?:/[-[:alnum:]_$.+!*,:;@&=?/~#%]+` +
		`(?:[(][-[:alnum:]_$.+!*,:;@&=?/~#%]*[)])*` +
		`[-[:alnum:]_$.+!*,:;@&=?/~#%]*)*` +
		`[^\]'.:}>) \t\r\n,"])?`)

// matchRegistry hands out integer tags for installed match patterns,
// the same handle shape terminals use for clickable regions. It is only
// touched from the GTK main loop.
type matchRegistry struct {
	nextTag  int
	patterns map[int]*regexp.Regexp
}

func newMatchRegistry() *matchRegistry {
	return &matchRegistry{patterns: make(map[int]*regexp.Regexp)}
}

// Add installs a pattern and returns its tag.
func (r *matchRegistry) Add(re *regexp.Regexp) int {
	tag := r.nextTag
	r.nextTag++
	r.patterns[tag] = re
	return tag
}

// Remove uninstalls the pattern with the given tag.
func (r *matchRegistry) Remove(tag int) {
	delete(r.patterns, tag)
}

// Pattern returns the installed pattern, nil for unknown or negative
// tags.
func (r *matchRegistry) Pattern(tag int) *regexp.Regexp {
	if tag < 0 {
		return nil
	}
	return r.patterns[tag]
}

// rowText flattens the visible row at y into a string plus a per-column
// byte-offset table, so regexp match ranges map back onto columns.
// Empty cells read as spaces to keep the columns aligned.
func rowText(buf *purfecterm.Buffer, y, width int) (string, []int) {
	var sb strings.Builder
	offsets := make([]int, width)
	for x := 0; x < width; x++ {
		offsets[x] = sb.Len()
		ch := buf.GetVisibleCell(x, y).Char
		if ch == 0 {
			ch = ' '
		}
		sb.WriteRune(ch)
	}
	return sb.String(), offsets
}

// urlAt returns the match covering the given column, or "" when the
// column falls outside every match.
func urlAt(re *regexp.Regexp, line string, offsets []int, col int) string {
	if re == nil || col < 0 || col >= len(offsets) {
		return ""
	}
	pos := offsets[col]
	for _, loc := range re.FindAllStringIndex(line, -1) {
		if loc[0] <= pos && pos < loc[1] {
			return line[loc[0]:loc[1]]
		}
	}
	return ""
}

// lastURL returns the match nearest the bottom of the given rows; the
// rightmost match in a row wins.
func lastURL(re *regexp.Regexp, rows []string) string {
	if re == nil {
		return ""
	}
	for i := len(rows) - 1; i >= 0; i-- {
		locs := re.FindAllStringIndex(rows[i], -1)
		if len(locs) > 0 {
			loc := locs[len(locs)-1]
			return rows[i][loc[0]:loc[1]]
		}
	}
	return ""
}

// urlAtPointer hit-tests the clicked pixel for a URL match. Cell
// hit-testing is private to the widget, so the cell is estimated by
// dividing the drawing area evenly by the terminal grid. The
// visible-cell accessor applies the scrollback and horizontal scroll
// positions itself, so screen coordinates are the right currency here.
func (a *App) urlAtPointer(x, y float64) string {
	re := a.matches.Pattern(a.cfg.MatchTag)
	if re == nil {
		return ""
	}
	buf := a.widget.Buffer()
	cols, rows := buf.GetSize()
	alloc := a.widget.DrawingArea().GetAllocation()
	w, h := float64(alloc.GetWidth()), float64(alloc.GetHeight())
	if cols <= 0 || rows <= 0 || w <= 0 || h <= 0 {
		return ""
	}
	col := int(x * float64(cols) / w)
	row := int(y * float64(rows) / h)
	if row < 0 || row >= rows {
		return ""
	}
	line, offsets := rowText(buf, row, cols)
	return urlAt(re, line, offsets, col)
}

// openLastURL opens the match nearest the bottom of the visible screen,
// the keyboard counterpart to middle-click.
func (a *App) openLastURL() {
	re := a.matches.Pattern(a.cfg.MatchTag)
	if re == nil {
		return
	}
	buf := a.widget.Buffer()
	cols, rows := buf.GetSize()
	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		lines[y], _ = rowText(buf, y, cols)
	}
	if url := lastURL(re, lines); url != "" {
		a.openURL(url)
	}
}

// openURL spawns the browser detached with argv {browser, url}; the
// browser setting is a single command, not a shell line.
func (a *App) openURL(url string) {
	browser := a.cfg.Browser
	if browser == "" {
		slog.Error("browser is not set, can't open url")
		return
	}
	cmd := exec.Command(browser, url)
	if err := cmd.Start(); err != nil {
		slog.Error("launching browser failed", "browser", browser, "error", err)
		return
	}
	slog.Debug("url opened", "url", url, "pid", cmd.Process.Pid)
	go cmd.Wait()
}

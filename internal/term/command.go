package term

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// UserShell returns the shell to run when no command was given on the
// command line.
func UserShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// Environ builds the child environment: the parent's, plus the terminal
// identity variables. WINDOWID is only set when the window has an X11
// window id to report.
func Environ(xid uint64) []string {
	env := append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	if xid != 0 {
		env = append(env, "WINDOWID="+strconv.FormatUint(xid, 10))
	}
	return env
}

// ExitStatus maps the result of (*exec.Cmd).Wait to a process exit
// status: nil is 0, a child that exited propagates its own code, and
// anything else (signal death, wait failure) is 1.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}

// SplitCommand splits a command line into an argv using shell quoting
// rules: whitespace separates words, single quotes preserve everything
// literally, double quotes honor backslash escapes for \" \\ \$ and \`,
// and a bare backslash escapes the next character. No variable or glob
// expansion takes place; the result is spawned directly, not through a
// shell.
func SplitCommand(line string) ([]string, error) {
	var argv []string
	var word strings.Builder
	inWord := false

	flush := func() {
		if inWord {
			argv = append(argv, word.String())
			word.Reset()
			inWord = false
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case ' ', '\t', '\n', '\r':
			flush()

		case '\\':
			if i+1 >= len(runes) {
				return nil, errors.New("unfinished escape at end of command")
			}
			i++
			word.WriteRune(runes[i])
			inWord = true

		case '\'':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\'' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, errors.New("unbalanced single quote")
			}
			word.WriteString(string(runes[i+1 : end]))
			inWord = true
			i = end

		case '"':
			i++
			closed := false
			for i < len(runes) {
				c := runes[i]
				if c == '"' {
					closed = true
					break
				}
				if c == '\\' && i+1 < len(runes) {
					// Only these escapes collapse inside double
					// quotes; any other backslash stays literal.
					switch next := runes[i+1]; next {
					case '"', '\\', '$', '`':
						word.WriteRune(next)
						i += 2
						continue
					}
				}
				word.WriteRune(c)
				i++
			}
			if !closed {
				return nil, errors.New("unbalanced double quote")
			}
			inWord = true

		default:
			word.WriteRune(c)
			inWord = true
		}
	}
	flush()

	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	return argv, nil
}

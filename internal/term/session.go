package term

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/gotk3/gotk3/glib"
	"github.com/phroun/purfecterm"
	terminal "github.com/phroun/purfecterm/gtk"
)

// Session ties a terminal widget to one child process on a PTY. The
// command itself is built by the caller, so argv, environment and
// working directory stay in the front-end's hands; the session owns the
// PTY, the read loop and the process lifetime.
type Session struct {
	mu sync.Mutex

	widget *terminal.Widget
	pty    purfecterm.PTY
	cmd    *exec.Cmd

	scanner StreamScanner

	running bool
	status  int
	done    chan struct{}

	scrollOnOutput    bool
	scrollOnKeystroke bool

	onBell      func()
	onTitle     func(string)
	onKeystroke func()
	onExit      func(status int)
}

// New wires a session to the widget: keyboard input is forwarded to the
// PTY and widget resizes propagate to it once a command is running.
func New(widget *terminal.Widget) *Session {
	s := &Session{widget: widget}

	// The scanner fires on the read-loop goroutine; hop onto the GTK
	// main loop before handing events to the application.
	s.scanner.Bell = func() {
		s.mu.Lock()
		fn := s.onBell
		s.mu.Unlock()
		if fn != nil {
			glib.IdleAdd(fn)
		}
	}
	s.scanner.Title = func(title string) {
		s.mu.Lock()
		fn := s.onTitle
		s.mu.Unlock()
		if fn != nil {
			glib.IdleAdd(func() { fn(title) })
		}
	}

	widget.SetInputCallback(func(data []byte) {
		s.mu.Lock()
		pty := s.pty
		scroll := s.scrollOnKeystroke
		fn := s.onKeystroke
		s.mu.Unlock()
		if pty != nil {
			pty.Write(data)
		}
		if scroll {
			widget.Buffer().SetScrollOffset(0)
		}
		if fn != nil {
			fn()
		}
	})

	widget.SetResizeCallback(func(cols, rows int) {
		s.mu.Lock()
		pty := s.pty
		s.mu.Unlock()
		if pty != nil {
			pty.Resize(cols, rows)
		}
	})

	return s
}

// SetBellCallback registers a handler for BEL characters in the output
// stream. It is delivered on the GTK main loop.
func (s *Session) SetBellCallback(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onBell = fn
}

// SetTitleCallback registers a handler for OSC window-title updates.
// It is delivered on the GTK main loop.
func (s *Session) SetTitleCallback(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTitle = fn
}

// SetKeystrokeCallback registers a handler that runs after each chunk of
// keyboard input is sent to the child.
func (s *Session) SetKeystrokeCallback(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onKeystroke = fn
}

// SetExitCallback registers a handler for child exit, delivered on the
// GTK main loop with the child's exit status.
func (s *Session) SetExitCallback(fn func(status int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExit = fn
}

// SetScrollOnOutput controls whether child output snaps the view back to
// the bottom of the scrollback.
func (s *Session) SetScrollOnOutput(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollOnOutput = on
}

// SetScrollOnKeystroke controls whether keyboard input snaps the view
// back to the bottom of the scrollback.
func (s *Session) SetScrollOnKeystroke(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollOnKeystroke = on
}

// Start launches cmd on a fresh PTY sized to the widget. The PTY becomes
// the child's controlling terminal.
func (s *Session) Start(cmd *exec.Cmd) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("session already running")
	}
	s.mu.Unlock()

	pty, err := purfecterm.NewPTY()
	if err != nil {
		return fmt.Errorf("open pty: %w", err)
	}
	if err := pty.Start(cmd); err != nil {
		pty.Close()
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	s.mu.Lock()
	s.pty = pty
	s.cmd = cmd
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	// The widget may have been resized between creation and spawn.
	cols, rows := s.widget.GetSize()
	pty.Resize(cols, rows)

	go s.readLoop(pty)
	go s.reap(cmd, done)

	return nil
}

func (s *Session) readLoop(pty purfecterm.PTY) {
	buf := make([]byte, 4096)
	for {
		n, err := pty.Read(buf)
		if n > 0 {
			s.scanner.Scan(buf[:n])
			s.widget.Feed(buf[:n])

			s.mu.Lock()
			scroll := s.scrollOnOutput
			s.mu.Unlock()
			if scroll {
				s.widget.Buffer().SetScrollOffset(0)
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) reap(cmd *exec.Cmd, done chan struct{}) {
	status := ExitStatus(cmd.Wait())

	s.mu.Lock()
	s.running = false
	s.status = status
	fn := s.onExit
	s.mu.Unlock()
	close(done)

	if fn != nil {
		glib.IdleAdd(func() {
			fn(status)
		})
	}
}

// Running reports whether the child process is still alive.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Status returns the exit status of the last reaped child.
func (s *Session) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Wait blocks until the child exits. Only meaningful after a successful
// Start.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close kills the child and releases the PTY. Closing twice is safe.
func (s *Session) Close() error {
	s.mu.Lock()
	pty := s.pty
	cmd := s.cmd
	s.pty = nil
	s.cmd = nil
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
	if pty != nil {
		return pty.Close()
	}
	return nil
}

// Package app drives the whisker window: it owns the GTK application,
// the terminal widget and its session, and all the runtime state the
// keybindings and stream callbacks act on.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/fsnotify/fsnotify"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	terminal "github.com/phroun/purfecterm/gtk"

	"github.com/phroun/whisker/internal/config"
	"github.com/phroun/whisker/internal/term"
)

const (
	appID        = "org.phroun.whisker"
	defaultTitle = "whisker"

	defaultCols   = 80
	defaultRows   = 24
	defaultWidth  = 800
	defaultHeight = 600
)

// Options carries the command-line settings into the application.
type Options struct {
	Exec       string
	Role       string
	Directory  string
	Hold       bool
	ConfigPath string
}

// App is the per-window state. Everything here is touched only from the
// GTK main loop; the session marshals its events onto it.
type App struct {
	opts Options
	argv []string

	gtkApp  *gtk.Application
	win     *gtk.ApplicationWindow
	widget  *terminal.Widget
	session *term.Session

	cfg     config.Config
	matches *matchRegistry

	zoom          float64
	fullscreen    bool
	pointerHidden bool
	status        int

	watcher   *fsnotify.Watcher
	watchPath string
}

// Run starts the GTK application and blocks until the window closes.
// The returned status is the child's exit status when the child ended
// the session, 0 when the user closed the window.
func Run(opts Options, gtkArgs []string) (int, error) {
	if opts.Directory != "" {
		if err := os.Chdir(opts.Directory); err != nil {
			return 1, fmt.Errorf("chdir: %w", err)
		}
	}

	argv := []string{term.UserShell()}
	if opts.Exec != "" {
		split, err := term.SplitCommand(opts.Exec)
		if err != nil {
			return 1, fmt.Errorf("failed to parse command: %w", err)
		}
		argv = split
	}

	// Lock main thread for GTK (required on macOS).
	runtime.LockOSThread()

	gtkApp, err := gtk.ApplicationNew(appID, glib.APPLICATION_NON_UNIQUE)
	if err != nil {
		return 1, fmt.Errorf("create application: %w", err)
	}

	a := &App{
		opts:    opts,
		argv:    argv,
		gtkApp:  gtkApp,
		cfg:     config.Defaults(),
		matches: newMatchRegistry(),
		zoom:    1.0,
	}
	gtkApp.Connect("activate", func() {
		a.activate()
	})

	code := gtkApp.Run(append([]string{os.Args[0]}, gtkArgs...))
	if a.status != 0 {
		return a.status, nil
	}
	return code, nil
}

func (a *App) activate() {
	win, err := gtk.ApplicationWindowNew(a.gtkApp)
	if err != nil {
		a.fail(fmt.Errorf("create window: %w", err))
		return
	}
	a.win = win
	win.SetTitle(defaultTitle)
	win.SetDefaultSize(defaultWidth, defaultHeight)
	win.SetName("whisker-window")
	if a.opts.Role != "" {
		setWindowRole(win, a.opts.Role)
	}

	// Load before widget creation: scrollback size is a constructor
	// argument.
	cfg, _ := config.Load(a.opts.ConfigPath)
	a.cfg = cfg

	widget, err := terminal.NewWidget(defaultCols, defaultRows, a.cfg.ScrollbackLines)
	if err != nil {
		a.fail(fmt.Errorf("create terminal: %w", err))
		return
	}
	a.widget = widget

	session := term.New(widget)
	a.session = session
	session.SetBellCallback(a.onBell)
	session.SetTitleCallback(a.onTitle)
	session.SetExitCallback(a.onChildExit)
	session.SetKeystrokeCallback(a.onKeystroke)

	win.Add(widget.Box())

	// App bindings sit on the toplevel so they run before the widget's
	// own key handling; the widget leaves middle clicks unconsumed for
	// the URL opener below.
	win.Connect("key-press-event", a.onKeyPress)
	win.Connect("focus-in-event", a.onFocusChange)
	win.Connect("focus-out-event", a.onFocusChange)
	win.Connect("destroy", a.onDestroy)
	widget.DrawingArea().Connect("button-press-event", a.onButtonPress)
	widget.DrawingArea().Connect("motion-notify-event", a.onPointerMotion)

	a.applyConfig()
	a.listenReloadSignal()

	win.ShowAll()
	widget.DrawingArea().GrabFocus()

	// Spawn after ShowAll so the window is realized and has an id to
	// put in the child's environment.
	glib.IdleAdd(func() bool {
		a.spawn()
		return false
	})
}

// fail abandons startup; the process exits nonzero once the main loop
// unwinds.
func (a *App) fail(err error) {
	slog.Error("startup failed", "error", err)
	a.status = 1
	a.gtkApp.Quit()
}

func (a *App) spawn() {
	cmd := exec.Command(a.argv[0], a.argv[1:]...)
	cmd.Env = term.Environ(windowXID(a.win))

	if err := a.session.Start(cmd); err != nil {
		slog.Error("command failed to run", "error", err)
		a.status = 1
		a.win.Destroy()
		return
	}
	slog.Debug("child running", "command", a.argv[0], "pid", cmd.Process.Pid)
}

// applyConfig pushes the current settings onto the window, widget, and
// session. It runs at startup and again after every reload; scrollback
// size only takes effect at widget creation.
func (a *App) applyConfig() {
	a.applyFont()
	a.widget.SetFontFallbacks(a.cfg.FontUnicodeFallback, a.cfg.FontCJKFallback)
	a.widget.SetColorScheme(a.cfg.Scheme)
	a.applyWindowBackground()

	if a.cfg.CursorShape != config.CursorUnset || a.cfg.CursorBlink != config.CursorUnset {
		shape, blink := a.widget.Buffer().GetCursorStyle()
		if a.cfg.CursorShape != config.CursorUnset {
			shape = a.cfg.CursorShape
		}
		if a.cfg.CursorBlink != config.CursorUnset {
			blink = a.cfg.CursorBlink
		}
		a.widget.Buffer().SetCursorStyle(shape, blink)
	}

	a.session.SetScrollOnOutput(a.cfg.ScrollOnOutput)
	a.session.SetScrollOnKeystroke(a.cfg.ScrollOnKeystroke)

	if a.cfg.ClickableURL {
		if a.cfg.MatchTag == -1 {
			a.cfg.MatchTag = a.matches.Add(urlPattern)
		}
	} else if a.cfg.MatchTag != -1 {
		a.matches.Remove(a.cfg.MatchTag)
		a.cfg.MatchTag = -1
	}

	if !a.cfg.MouseAutohide {
		a.setPointerHidden(false)
	}

	a.updateConfigWatch()
}

func (a *App) applyFont() {
	a.widget.SetFont(a.cfg.FontFamily, scaledFontSize(a.cfg.FontSize, a.zoom))
}

// applyWindowBackground paints the toplevel with the scheme background
// so resizes don't flash the toolkit theme color behind the terminal.
func (a *App) applyWindowBackground() {
	cssProvider, err := gtk.CssProviderNew()
	if err != nil {
		return
	}
	bg := a.cfg.Scheme.Background(a.widget.Buffer().IsDarkTheme())
	cssProvider.LoadFromData(fmt.Sprintf(
		"#whisker-window { background-color: rgb(%d, %d, %d); }",
		bg.R, bg.G, bg.B))
	screen, err := gdk.ScreenGetDefault()
	if err != nil {
		return
	}
	gtk.AddProviderForScreen(screen, cssProvider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

package app

import (
	"log/slog"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

// Modifier bits the keybindings care about; lock and pointer-button
// state are masked off before comparing.
var (
	appModifierMask = uint(gdk.CONTROL_MASK | gdk.SHIFT_MASK | gdk.MOD1_MASK | gdk.SUPER_MASK | gdk.META_MASK)
	ctrlShiftMask   = uint(gdk.CONTROL_MASK | gdk.SHIFT_MASK)
)

func (a *App) onKeyPress(_ *gtk.ApplicationWindow, ev *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(ev)
	keyval := key.KeyVal()
	state := key.State() & appModifierMask

	if keyval == gdk.KEY_F11 && state == 0 {
		a.toggleFullscreen()
		return true
	}

	if state != ctrlShiftMask {
		return false
	}

	switch keyval {
	case gdk.KEY_plus:
		a.increaseFontScale()
	case gdk.KEY_underscore:
		a.decreaseFontScale()
	case gdk.KEY_parenright:
		a.resetFontScale()
	case gdk.KEY_c, gdk.KEY_C:
		a.widget.CopySelection()
	case gdk.KEY_v, gdk.KEY_V:
		a.widget.PasteClipboard()
	case gdk.KEY_r, gdk.KEY_R:
		a.reloadConfig()
	case gdk.KEY_u, gdk.KEY_U:
		a.openLastURL()
	default:
		return false
	}
	return true
}

func (a *App) increaseFontScale() {
	if next, ok := nextZoomFactor(a.zoom); ok {
		a.zoom = next
		a.applyFont()
	}
}

func (a *App) decreaseFontScale() {
	if prev, ok := prevZoomFactor(a.zoom); ok {
		a.zoom = prev
		a.applyFont()
	}
}

func (a *App) resetFontScale() {
	a.zoom = 1.0
	a.applyFont()
}

func (a *App) toggleFullscreen() {
	if a.fullscreen {
		a.win.Unfullscreen()
	} else {
		a.win.Fullscreen()
	}
	a.fullscreen = !a.fullscreen
}

// onButtonPress opens the URL under a middle click. The widget consumes
// left and right buttons itself; middle clicks fall through to here.
func (a *App) onButtonPress(_ *gtk.DrawingArea, ev *gdk.Event) bool {
	btn := gdk.EventButtonNewFromEvent(ev)
	if btn.Button() != 2 { // Middle button
		return false
	}
	url := a.urlAtPointer(btn.X(), btn.Y())
	if url == "" {
		return false
	}
	a.openURL(url)
	return true
}

func (a *App) onBell() {
	if a.cfg.AudibleBell {
		displayBeep()
	}
	if a.cfg.UrgentOnBell {
		setUrgencyHint(a.win, true)
	}
}

// onFocusChange clears the urgency hint on any focus transition, so a
// bell flag doesn't outlive the user's attention.
func (a *App) onFocusChange(_ *gtk.ApplicationWindow, _ *gdk.Event) bool {
	setUrgencyHint(a.win, false)
	return false
}

func (a *App) onTitle(title string) {
	if title == "" {
		title = defaultTitle
	}
	a.win.SetTitle(title)
}

func (a *App) onChildExit(status int) {
	if a.opts.Hold {
		slog.Debug("child exited, holding window open", "status", status)
		return
	}
	a.status = status
	a.win.Destroy()
}

func (a *App) onDestroy() {
	a.stopConfigWatch()
	if a.session != nil {
		a.session.Close()
	}
}

func (a *App) onKeystroke() {
	if a.cfg.MouseAutohide {
		a.setPointerHidden(true)
	}
}

func (a *App) onPointerMotion(_ *gtk.DrawingArea, _ *gdk.Event) bool {
	a.setPointerHidden(false)
	return false
}

func (a *App) setPointerHidden(hidden bool) {
	if a.pointerHidden == hidden {
		return
	}
	gdkWin, err := a.widget.DrawingArea().GetWindow()
	if err != nil {
		return
	}
	setCursorHidden(gdkWin, hidden)
	a.pointerHidden = hidden
}

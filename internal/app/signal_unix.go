//go:build !windows
// +build !windows

package app

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/gotk3/gotk3/glib"
	"golang.org/x/sys/unix"
)

// listenReloadSignal reloads the configuration on SIGUSR1, the usual
// reconfigure convention for terminals.
func (a *App) listenReloadSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGUSR1)
	go func() {
		for range ch {
			slog.Debug("reload signal received")
			glib.IdleAdd(a.reloadConfig)
		}
	}()
}

//go:build windows
// +build windows

package app

// SIGUSR1 does not exist on Windows; reloads come from the keybinding
// and the auto-reload watcher only.
func (a *App) listenReloadSignal() {}

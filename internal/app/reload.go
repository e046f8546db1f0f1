package app

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gotk3/gotk3/glib"

	"github.com/phroun/whisker/internal/config"
)

// reloadConfig re-reads the configuration and reapplies it. The
// Ctrl+Shift+R binding, SIGUSR1, and the auto-reload watcher all funnel
// here on the GTK main loop. When no file is found anywhere the current
// settings stay in force.
func (a *App) reloadConfig() {
	cfg, ok := config.Load(a.opts.ConfigPath)
	if !ok {
		slog.Debug("no config file found, keeping current settings")
		return
	}
	// The live matcher registration carries across the reload.
	cfg.MatchTag = a.cfg.MatchTag
	a.cfg = cfg
	a.applyConfig()
	slog.Info("config reloaded", "path", cfg.Path)
}

// updateConfigWatch points the watcher at the loaded config file's
// directory. Editors replace files by rename, so watching the file
// itself would go stale after the first save.
func (a *App) updateConfigWatch() {
	path := ""
	if a.cfg.AutoReload && a.cfg.Path != "" {
		path = a.cfg.Path
	}
	if path == a.watchPath {
		return
	}
	a.stopConfigWatch()
	if path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config watch unavailable", "error", err)
		return
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		slog.Warn("config watch failed", "path", path, "error", err)
		watcher.Close()
		return
	}
	a.watcher = watcher
	a.watchPath = path
	go watchConfig(watcher, path, a.reloadConfig)
	slog.Debug("config watch started", "path", path)
}

func (a *App) stopConfigWatch() {
	if a.watcher == nil {
		return
	}
	a.watcher.Close()
	a.watcher = nil
	a.watchPath = ""
}

// watchConfig forwards change events for the config file onto the GTK
// main loop. The goroutine ends when the watcher is closed.
func watchConfig(watcher *fsnotify.Watcher, path string, reload func()) {
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			glib.IdleAdd(reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watch error", "error", err)
		}
	}
}

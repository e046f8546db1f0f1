// whisker is a small terminal emulator: one window, one shell, a
// key-file configuration, and nothing else.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phroun/whisker/internal/app"
)

var version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options
	var showVersion, debug bool

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.StringVar(&opts.Exec, "exec", "", "command to run instead of the shell")
	flag.StringVar(&opts.Exec, "e", "", "command to run instead of the shell")
	flag.StringVar(&opts.Role, "role", "", "window role for the window manager")
	flag.StringVar(&opts.Role, "r", "", "window role for the window manager")
	flag.StringVar(&opts.Directory, "directory", "", "change to directory before spawning")
	flag.StringVar(&opts.Directory, "d", "", "change to directory before spawning")
	flag.BoolVar(&opts.Hold, "hold", false, "keep the window open after the child exits")
	flag.StringVar(&opts.ConfigPath, "config", "", "path of config file")
	flag.StringVar(&opts.ConfigPath, "c", "", "path of config file")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	if showVersion {
		fmt.Printf("whisker %s\n", version)
		return 0
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	status, err := app.Run(opts, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "whisker: %v\n", err)
		return 1
	}
	return status
}

// Package main is a terminal demo for the hotkey dispatch engine. It
// reads shortcut definitions from files and scripts, binds them to a
// tcell-backed input source, and logs every dispatch.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dshills/hotkey/internal/engine"
	"github.com/dshills/hotkey/internal/key"
	"github.com/dshills/hotkey/internal/loader"
	"github.com/dshills/hotkey/internal/logger"
	"github.com/dshills/hotkey/internal/script"
	"github.com/dshills/hotkey/internal/shortcut"
	"github.com/dshills/hotkey/internal/source"
	"github.com/dshills/hotkey/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	ShortcutsPath string
	ScriptPath    string
	Watch         bool
	LogLevel      string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	log, err := logger.New(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Close()

	term, err := source.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	cfg := engine.DefaultConfig()
	cfg.Target = term
	cfg.Logger = log.Slog()
	eng := engine.New(cfg)
	defer eng.Destroy()

	// Built-in bindings so the demo is usable with no config at all.
	eng.Register("quit", shortcutDef("ctrl+q", 100, "Quit the demo", func(key.Event) error {
		quitOnce.Do(func() { close(quit) })
		return nil
	}))
	eng.Register("pause", shortcutDef("ctrl+p", 50, "Toggle dispatching", func(key.Event) error {
		if eng.Paused() {
			eng.Resume()
			log.Info("dispatching resumed")
		} else {
			eng.Pause()
			log.Info("dispatching paused")
		}
		return nil
	}))

	if opts.ShortcutsPath != "" {
		if opts.Watch {
			w, err := watcher.New(eng.Registry(), opts.ShortcutsPath,
				watcher.WithLogger(log.Slog()))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			defer w.Close()
		} else if err := loader.LoadInto(eng.Registry(), opts.ShortcutsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.ScriptPath != "" {
		rt := script.New(eng.Registry())
		defer rt.Close()
		if err := rt.RunFile(opts.ScriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	subscribeLogging(eng, log)

	if err := term.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start terminal: %v\n", err)
		return 1
	}
	defer term.Stop()

	log.Info("listening", "shortcuts", len(eng.GetAll()))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case <-signals:
	}

	stats := eng.Stats()
	log.Info("session finished", "fired", stats.Fired, "failed", stats.Failed, "panicked", stats.Panicked)
	return 0
}

// subscribeLogging attaches a logging subscriber to every shortcut that
// has no handler of its own. Shortcuts with a default action (built-ins,
// scripted bindings) keep it; a subscription would shadow it.
func subscribeLogging(eng *engine.Engine, log *logger.Logger) {
	for id, def := range eng.GetAll() {
		if def.DefaultAction != nil {
			continue
		}
		id := id
		eng.Subscribe(id, func(ev key.Event) error {
			log.Info("dispatched", "shortcut", id, "chord", ev.Chord())
			return nil
		})
	}
}

func shortcutDef(trigger string, priority int, desc string, action shortcut.Action) shortcut.Definition {
	return shortcut.Definition{
		Trigger:       trigger,
		Priority:      priority,
		Description:   desc,
		DefaultAction: action,
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ShortcutsPath, "shortcuts", "", "Path to a shortcut file (.toml, .yaml, .json)")
	flag.StringVar(&opts.ShortcutsPath, "s", "", "Path to a shortcut file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Path to a Lua shortcut script")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the shortcut file when it changes")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error; empty disables)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hotkey - keyboard shortcut dispatch demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hotkey [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPress ctrl+q to quit, ctrl+p to pause dispatching.\n")
		fmt.Fprintf(os.Stderr, "Dispatches are written to the session log under $XDG_STATE_HOME/hotkey.\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("hotkey %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts
}

// atelier TUI - A terminal client for multi-provider AI chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/atelier-tui/internal/config"
	"github.com/jeranaias/atelier-tui/internal/session"
	"github.com/jeranaias/atelier-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to config file (default ~/.atelier/config.toml)")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("atelier %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "atelier: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	if histPath, err := cfg.HistoryPath(); err == nil {
		cfg.History.Path = histPath
	} else {
		cfg.History.Enabled = false
	}

	sess := session.New(cfg)
	defer sess.Close()

	program := tea.NewProgram(chat.New(sess), tea.WithAltScreen())

	// Config edits take effect without a restart. The reloaded config is
	// handed to the session; the client is rebuilt for the next request.
	watcher := startConfigWatcher(configPath, sess)
	if watcher != nil {
		defer watcher.Close()
	}

	_, err = program.Run()
	return err
}

// loadConfig loads configuration from an explicit path or the default
// cascade.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	if err := config.EnsureConfigDir(); err != nil {
		slog.Warn("could not create config directory", "error", err)
	}
	return config.Load()
}

// startConfigWatcher begins watching the config file. A watcher that fails
// to start is not fatal; edits then require a restart.
func startConfigWatcher(path string, sess *session.Session) *config.Watcher {
	onLoad := func(cfg *config.Config) {
		if histPath, err := cfg.HistoryPath(); err == nil {
			cfg.History.Path = histPath
		}
		sess.SetConfig(cfg)
	}

	var watcher *config.Watcher
	var err error
	if path != "" {
		watcher, err = config.WatchPath(path, onLoad)
	} else {
		watcher, err = config.Watch(onLoad)
	}
	if err != nil {
		slog.Warn("config watcher unavailable", "error", err)
		return nil
	}
	return watcher
}

// setupLogging writes structured logs to a file in the config directory.
// Stderr is unusable while the TUI owns the terminal.
func setupLogging(debug bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	dir, err := config.ConfigDir()
	if err != nil {
		// No home directory: discard logs rather than corrupting the screen.
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := os.OpenFile(filepath.Join(dir, "atelier.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() { f.Close() }, nil
}

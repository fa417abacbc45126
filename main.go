package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/holocard/internal/config"
	"github.com/olivier-w/holocard/internal/ui"
)

const usage = `usage: holocard [deck.json]

Without a deck file, pick one from the current directory or use the
built-in deck.

Environment:
  HOLOCARD_FPS          frame rate, 1-240 (default 60)
  HOLOCARD_MUTE         start with sound off
  HOLOCARD_SFX_DIR      directory holding pop and spin clips
  HOLOCARD_ORIENTATION  JSON-lines tilt recording to replay
  HOLOCARD_SHOWCASE     sweep the first card on start
  HOLOCARD_LOG          log file (logging is off when unset)
  HOLOCARD_LOG_LEVEL    debug, info, warn or error
`

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	m := newStartupModel(cfg, logger)
	if len(os.Args) > 1 {
		m = m.opening(os.Args[1])
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	final, err := program.Run()
	if dm, ok := final.(ui.Model); ok {
		dm.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging writes text logs to cfg.LogPath. The terminal belongs to the
// UI, so without a log file everything is discarded.
func setupLogging(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogPath == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return logger, func() { f.Close() }, nil
}

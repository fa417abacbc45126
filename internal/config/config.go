package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	LogPath     string
	LogLevel    slog.Level
	FPS         int
	SFXDir      string
	Mute        bool
	Orientation string // replay file for the orientation feed
	Showcase    bool   // force the idle showcase on the first card
}

func Load() (Config, error) {
	c := Config{
		LogPath:     os.Getenv("HOLOCARD_LOG"),
		SFXDir:      os.Getenv("HOLOCARD_SFX_DIR"),
		Orientation: os.Getenv("HOLOCARD_ORIENTATION"),
		FPS:         60,
	}

	if v := os.Getenv("HOLOCARD_FPS"); v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil || fps < 1 || fps > 240 {
			return Config{}, fmt.Errorf("invalid HOLOCARD_FPS %q: want 1-240", v)
		}
		c.FPS = fps
	}

	var err error
	if c.Mute, err = parseBool("HOLOCARD_MUTE"); err != nil {
		return Config{}, err
	}
	if c.Showcase, err = parseBool("HOLOCARD_SHOWCASE"); err != nil {
		return Config{}, err
	}

	level, err := parseLogLevel(envOr("HOLOCARD_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid HOLOCARD_LOG_LEVEL %q", s)
	}
}

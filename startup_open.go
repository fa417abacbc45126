package main

import (
	"log/slog"

	"github.com/olivier-w/holocard/internal/config"
	"github.com/olivier-w/holocard/internal/deck"
	"github.com/olivier-w/holocard/internal/orientation"
	"github.com/olivier-w/holocard/internal/sfx"
	"github.com/olivier-w/holocard/internal/ui"
)

// openStatus reports progress while a deck is being prepared.
type openStatus struct {
	Phase string
	Done  int
	Total int
}

const openSteps = 3

// buildDeckModel loads the deck at path (the built-in deck when path is
// empty), opens the cue player and reads the tilt recording, reporting each
// step. Only a deck failure is fatal.
func buildDeckModel(path string, cfg config.Config, logger *slog.Logger, report func(openStatus)) (ui.Model, error) {
	report(openStatus{Phase: "deck", Done: 0, Total: openSteps})
	d, err := loadDeck(path)
	if err != nil {
		return ui.Model{}, err
	}
	logger.Info("deck loaded", "deck", d.Name, "cards", len(d.Cards))

	report(openStatus{Phase: "sound", Done: 1, Total: openSteps})
	player := sfx.Open(cfg.SFXDir, cfg.Mute, logger)

	report(openStatus{Phase: "tilt", Done: 2, Total: openSteps})
	var recording []orientation.Event
	if cfg.Orientation != "" {
		recording, err = orientation.LoadRecording(cfg.Orientation)
		if err != nil {
			logger.Warn("orientation recording unavailable", "path", cfg.Orientation, "error", err)
			recording = nil
		}
	}

	report(openStatus{Phase: "ready", Done: openSteps, Total: openSteps})
	return ui.New(ui.Options{
		Deck:      d,
		FPS:       cfg.FPS,
		SFX:       player,
		Recording: recording,
		Showcase:  cfg.Showcase,
		Logger:    logger,
	}), nil
}

func loadDeck(path string) (deck.Deck, error) {
	if path == "" {
		return deck.Default()
	}
	return deck.Load(path)
}

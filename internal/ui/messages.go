package ui

import (
	"fmt"
	"image"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/holocard/internal/art"
	"github.com/olivier-w/holocard/internal/card"
)

type frameMsg time.Time

type artLoadedMsg struct {
	index int
	front *image.NRGBA
	back  *image.NRGBA
	err   error
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// loadArtCmd decodes a card's images off the update loop. Cards without a
// local front image get a generated face.
func loadArtCmd(index int, opts card.Options) tea.Cmd {
	return func() tea.Msg {
		msg := artLoadedMsg{index: index}
		front := opts.FrontImage(art.IsLocal)
		if art.IsLocal(front) {
			img, err := art.Load(front)
			if err != nil {
				msg.err = err
				img = art.Placeholder(opts)
			}
			msg.front = img
		} else {
			msg.front = art.Placeholder(opts)
		}

		if art.IsLocal(opts.Back) {
			if back, err := art.Load(opts.Back); err == nil {
				msg.back = back
			} else if msg.err == nil {
				msg.err = err
			}
		}
		return msg
	}
}

type snapshotSavedMsg struct {
	path string
	err  error
}

// snapshotCmd renders one card at full size and writes it as WebP.
func snapshotCmd(face art.Face, p card.Params, path string) tea.Cmd {
	return func() tea.Msg {
		err := art.SaveWebP(path, art.Snapshot(face, p, tableColor))
		return snapshotSavedMsg{path: path, err: err}
	}
}

func snapshotName(cardName string, at time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, cardName)
	if slug == "" {
		slug = "card"
	}
	return fmt.Sprintf("%s-%s.webp", slug, at.Format("20060102-150405"))
}

package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/holocard/internal/card"
)

var readoutParams = []card.Param{
	card.Scale,
	card.RotateX,
	card.RotateY,
	card.PointerFromCenter,
	card.CardOpacity,
	card.BackgroundX,
	card.BackgroundY,
}

// renderTiltBar draws a centred meter for a value in [-limit, limit].
func renderTiltBar(value, limit float64, width int) string {
	if width < 9 {
		width = 9
	}
	half := (width - 1) / 2

	var ratio float64
	if limit > 0 {
		ratio = value / limit
	}
	if ratio < -1 {
		ratio = -1
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(half))
	left := strings.Repeat("─", half)
	right := strings.Repeat("─", half)
	if filled < 0 {
		left = strings.Repeat("─", half+filled) + strings.Repeat("━", -filled)
	} else if filled > 0 {
		right = strings.Repeat("━", filled) + strings.Repeat("─", half-filled)
	}
	return left + "┼" + right
}

func renderDegrees(label string, v float64) string {
	return fmt.Sprintf("%s %+5.1f°", label, v)
}

// renderOutputs lists a card's outputs by variable name, cut to width runes.
func renderOutputs(name string, p card.Params, width int) string {
	parts := []string{name}
	for _, id := range readoutParams {
		parts = append(parts, fmt.Sprintf("%s %.2f", id, p.Get(id)))
	}
	out := strings.Join(parts, "  ")
	if runes := []rune(out); width > 0 && len(runes) > width {
		out = string(runes[:width])
	}
	return out
}

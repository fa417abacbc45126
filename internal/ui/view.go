package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivier-w/holocard/internal/art"
	"github.com/olivier-w/holocard/internal/card"
)

// The card clamps tilt to these, so the meters saturate there too.
const (
	meterBeta  = 18
	meterGamma = 16
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.st.geo.ok() {
		return "\n  " + headerStyle.Render("holocard") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.messageLine())
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m Model) headerLine() string {
	left := "holocard"
	if m.deckName != "" {
		left += "  " + m.deckName
	}
	right := fmt.Sprintf("%d cards", len(m.st.cards))
	gap := m.width - len([]rune(left)) - len(right) - 4

	out := "  " + headerStyle.Render("holocard")
	if m.deckName != "" {
		out += "  " + titleStyle.Render(m.deckName)
	}
	return out + spaces(gap) + statusStyle.Render(right)
}

func (m Model) renderCanvas() string {
	geo := m.st.geo
	cv := art.NewCanvas(geo.cols, geo.rows, tableColor)
	order := m.drawOrder()

	popped := -1
	if len(order) > 0 && m.dim > 0 {
		popped = order[len(order)-1]
	}

	for _, i := range order {
		if i == popped {
			cv.Dim(m.dim)
		}
		c := m.st.cards[i]
		p := c.params
		r := transformed(geo.slot(i), p)
		art.DrawCard(cv, c.face, p, pixelRect(r))

		if c.ctrl.Loading() {
			centreText(cv, r, (r.Y+r.Height/2)/2, "loading", labelColor)
		}
		if i != popped && p.Scale < 1.01 {
			m.drawLabel(cv, i, r)
		}
	}
	return cv.Render(m.mode)
}

// drawLabel writes the card name under its box, highlighted when the card
// has keyboard focus.
func (m Model) drawLabel(cv *art.Canvas, i int, r card.Rect) {
	name := m.st.cards[i].opts.Name
	ink := labelColor
	if i == m.focus {
		name = "▸ " + name
		ink = focusColor
	}
	centreText(cv, r, math.Ceil((r.Y+r.Height)/2), name, ink)
}

func centreText(cv *art.Canvas, r card.Rect, row float64, s string, ink art.RGB) {
	runes := []rune(s)
	if w := int(r.Width); len(runes) > w && w > 0 {
		runes = runes[:w]
	}
	col := int(math.Round(r.X + (r.Width-float64(len(runes)))/2))
	cv.Text(col, int(row), string(runes), ink)
}

func (m Model) statusLine() string {
	rel := m.st.tracker.Get().Relative
	barWidth := (m.width - 40) / 2
	if barWidth > 21 {
		barWidth = 21
	}

	left := fmt.Sprintf("%s %s   %s %s",
		renderDegrees("β", rel.Beta), renderTiltBar(rel.Beta, meterBeta, barWidth),
		renderDegrees("γ", rel.Gamma), renderTiltBar(rel.Gamma, meterGamma, barWidth))
	if icon := m.source.Icon(); icon != "" {
		left += "  " + icon
	}

	sound := "♪"
	if m.sfx.Muted() {
		sound = "muted"
	}
	gap := m.width - len([]rune(left)) - len([]rune(sound)) - 4
	if gap < 2 {
		gap = 2
	}
	return "  " + statusStyle.Render(left) + spaces(gap) + statusStyle.Render(sound)
}

func (m Model) messageLine() string {
	loading := 0
	for _, cv := range m.st.cards {
		if cv.ctrl.Loading() {
			loading++
		}
	}
	switch {
	case loading > 0:
		return "  " + m.spinner.View() + statusStyle.Render(fmt.Sprintf(" loading %d of %d cards", loading, len(m.st.cards)))
	case m.outputs && m.selected() >= 0:
		c := m.st.cards[m.selected()]
		return "  " + statusStyle.Render(renderOutputs(c.opts.Name, c.params, m.width-4))
	case m.status != "":
		return "  " + helpStyle.Render(m.status)
	}
	for _, cv := range m.st.cards {
		if cv.err != nil {
			return "  " + errorStyle.Render(fmt.Sprintf("%s: %v", cv.opts.Name, cv.err))
		}
	}
	return ""
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}

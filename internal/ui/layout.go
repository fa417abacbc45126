package ui

import (
	"image"
	"math"

	"github.com/olivier-w/holocard/internal/card"
)

// Canvas coordinates: x is in terminal cells, y is in half-block pixels
// (two per row), so a pixel is roughly square.
const (
	restCols    = 20
	minCols     = 10
	gapX        = 3
	gapY        = 4
	marginY     = 2
	cardAspect  = 88.0 / 63.0
	headerRows  = 2
	footerRows  = 3
	scrollStep  = 4
	minCanvasHt = 4
)

// geometry is the resting grid the deck is laid out on.
type geometry struct {
	cols, rows   int // canvas size in cells
	cardW, cardH int // card size in pixels
	perRow       int
	left         int
	count        int
	scroll       int
}

func layoutGrid(width, height, count int) geometry {
	g := geometry{cols: width, rows: height - headerRows - footerRows, count: count}
	if g.rows < minCanvasHt {
		g.rows = minCanvasHt
	}
	if g.cols <= 0 {
		return g
	}

	pixH := g.rows * 2
	g.cardW = restCols
	if fit := int(float64(pixH-2*marginY) / cardAspect); fit < g.cardW {
		g.cardW = fit
	}
	if g.cardW > g.cols-2*gapX {
		g.cardW = g.cols - 2*gapX
	}
	if g.cardW < minCols {
		g.cardW = minCols
	}
	g.cardH = int(math.Round(float64(g.cardW) * cardAspect))

	g.perRow = (g.cols - gapX) / (g.cardW + gapX)
	if g.perRow < 1 {
		g.perRow = 1
	}
	if count > 0 && g.perRow > count {
		g.perRow = count
	}
	span := g.perRow*g.cardW + (g.perRow-1)*gapX
	g.left = (g.cols - span) / 2
	if g.left < 0 {
		g.left = 0
	}
	return g
}

func (g geometry) ok() bool {
	return g.cols > 0 && g.cardW > 0
}

// slot is the resting box of card i, scroll applied.
func (g geometry) slot(i int) card.Rect {
	row, col := i/g.perRow, i%g.perRow
	return card.Rect{
		X:      float64(g.left + col*(g.cardW+gapX)),
		Y:      float64(marginY + row*(g.cardH+gapY) - g.scroll),
		Width:  float64(g.cardW),
		Height: float64(g.cardH),
	}
}

func (g geometry) maxScroll() int {
	if !g.ok() || g.count == 0 {
		return 0
	}
	rowsOfCards := (g.count + g.perRow - 1) / g.perRow
	content := 2*marginY + rowsOfCards*g.cardH + (rowsOfCards-1)*gapY
	if over := content - g.rows*2; over > 0 {
		return over
	}
	return 0
}

func (g *geometry) scrollBy(d int) bool {
	next := g.scroll + d
	if next < 0 {
		next = 0
	}
	if m := g.maxScroll(); next > m {
		next = m
	}
	if next == g.scroll {
		return false
	}
	g.scroll = next
	return true
}

// transformed applies a card's translate and scale to its resting box.
func transformed(r card.Rect, p card.Params) card.Rect {
	w, h := r.Width*p.Scale, r.Height*p.Scale
	cx := r.X + r.Width/2 + p.TranslateX
	cy := r.Y + r.Height/2 + p.TranslateY
	return card.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

func pixelRect(r card.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	)
}

// cardHost answers a controller's geometry queries from the shared deck state.
type cardHost struct {
	st    *deckState
	index int
}

func (h cardHost) Layout() (card.Rect, bool) {
	if !h.st.geo.ok() {
		return card.Rect{}, false
	}
	return h.st.geo.slot(h.index), true
}

func (h cardHost) Bounds() (card.Rect, bool) {
	r, ok := h.Layout()
	if !ok || h.index >= len(h.st.cards) {
		return r, ok
	}
	return transformed(r, h.st.cards[h.index].params), true
}

func (h cardHost) Viewport() (float64, float64, bool) {
	if !h.st.geo.ok() {
		return 0, 0, false
	}
	return float64(h.st.geo.cols), float64(h.st.geo.rows * 2), true
}

func (h cardHost) Visible() bool {
	return h.st.focused
}

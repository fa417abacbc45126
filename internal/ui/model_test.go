package ui

import (
	"fmt"
	"image"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/holocard/internal/art"
	"github.com/olivier-w/holocard/internal/card"
	"github.com/olivier-w/holocard/internal/deck"
	"github.com/olivier-w/holocard/internal/orientation"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func testDeck(n int) deck.Deck {
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"}
	d := deck.Deck{Name: "Test Deck"}
	for i := 0; i < n; i++ {
		d.Cards = append(d.Cards, card.Options{Name: names[i], Types: card.Words{"fire"}})
	}
	return d
}

func newTestModel(t *testing.T, opts Options, width, height int) (Model, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1_000, 0)}
	opts.Now = clk.now
	opts.Rand = func() float64 { return 0.5 }
	if opts.Deck.Cards == nil {
		opts.Deck = testDeck(2)
	}
	m := New(opts)
	m.mode = art.ColorOff
	m = send(m, tea.WindowSizeMsg{Width: width, Height: height})
	// Let the construction-time settle timers fire.
	m = runFrames(m, clk, 200*time.Millisecond)
	return m, clk
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runFrames(m Model, clk *fakeClock, d time.Duration) Model {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 16 * time.Millisecond {
		clk.t = clk.t.Add(16 * time.Millisecond)
		m = send(m, frameMsg(clk.t))
	}
	return m
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestLayoutGrid(t *testing.T) {
	g := layoutGrid(80, 40, 2)
	if g.rows != 35 || g.cardW != 20 || g.cardH != 28 || g.perRow != 2 || g.left != 18 {
		t.Fatalf("unexpected geometry %+v", g)
	}
	if r := g.slot(1); r.X != 41 || r.Y != 2 || r.Width != 20 || r.Height != 28 {
		t.Fatalf("unexpected second slot %+v", r)
	}
	if g.maxScroll() != 0 {
		t.Fatalf("expected no scroll room, got %d", g.maxScroll())
	}

	small := layoutGrid(40, 20, 6)
	if small.perRow != 1 || small.cardW != 18 || small.cardH != 25 {
		t.Fatalf("unexpected small geometry %+v", small)
	}
	if small.maxScroll() != 144 {
		t.Fatalf("expected 144px of scroll, got %d", small.maxScroll())
	}
	if small.scrollBy(-4) || small.scroll != 0 {
		t.Fatal("scrolling above the top should clamp to 0")
	}
	small.scrollBy(1000)
	if small.scroll != 144 {
		t.Fatalf("expected scroll clamped to 144, got %d", small.scroll)
	}
	if r := small.slot(0); r.Y != marginY-144 {
		t.Fatalf("expected scrolled slot, got %+v", r)
	}
}

func TestTransformedScalesAboutCentre(t *testing.T) {
	r := transformed(card.Rect{X: 10, Y: 20, Width: 20, Height: 40},
		card.Params{Scale: 1.5, TranslateX: 5, TranslateY: -10})
	if r.X != 10 || r.Y != 0 || r.Width != 30 || r.Height != 60 {
		t.Fatalf("unexpected transform %+v", r)
	}
}

func TestMouseHoverDrivesPointer(t *testing.T) {
	m, clk := newTestModel(t, Options{}, 80, 40)
	alpha := m.st.cards[0].ctrl

	m = send(m, motion(28, 10))
	if m.hovered != 0 || !alpha.Interacting() {
		t.Fatalf("expected hover on first card, hovered=%d", m.hovered)
	}
	if !m.ticking {
		t.Fatal("expected pointer input to start the frame ticker")
	}

	m = send(m, motion(5, 10))
	if m.hovered != -1 {
		t.Fatalf("expected no hovered card, got %d", m.hovered)
	}
	m = runFrames(m, clk, 600*time.Millisecond)
	if alpha.Interacting() {
		t.Fatal("expected card to settle after the pointer left")
	}
}

func TestClickPopsCardAndEscCloses(t *testing.T) {
	m, clk := newTestModel(t, Options{}, 80, 40)
	alpha := m.st.cards[0].ctrl

	m = send(m, click(28, 10))
	if m.st.active.Get() != alpha || m.focus != 0 {
		t.Fatal("expected click to pop the first card")
	}

	m = runFrames(m, clk, 2*time.Second)
	if math.Abs(m.dim-dimTarget) > 0.01 {
		t.Fatalf("expected table dimmed to %v, got %v", dimTarget, m.dim)
	}
	if alpha.Params().Scale <= 1 {
		t.Fatalf("expected popped card to grow, scale %v", alpha.Params().Scale)
	}
	if order := m.drawOrder(); order[len(order)-1] != 0 {
		t.Fatalf("expected active card drawn last, got %v", order)
	}

	m = send(m, press("esc"))
	if m.st.active.Get() != nil {
		t.Fatal("expected esc to close the popover")
	}
	m = runFrames(m, clk, 3*time.Second)
	if m.dim != 0 {
		t.Fatalf("expected dim to clear, got %v", m.dim)
	}
}

func TestClickOnTableBlursActiveCard(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)

	m = send(m, press("enter"))
	if m.st.active.Get() != m.st.cards[0].ctrl {
		t.Fatal("expected enter to pop the first card")
	}
	m = send(m, click(1, 10))
	if m.st.active.Get() != nil {
		t.Fatal("expected click on the table to close the popover")
	}
}

func TestTabMovesFocusAndBlursPrevious(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)

	m = send(m, press("tab"))
	if m.focus != 0 {
		t.Fatalf("expected focus on first card, got %d", m.focus)
	}
	m = send(m, press("enter"))
	if !m.st.cards[0].ctrl.Active() {
		t.Fatal("expected focused card to pop")
	}
	m = send(m, press("tab"))
	if m.focus != 1 || m.st.active.Get() != nil {
		t.Fatalf("expected focus to move and popover to close, focus=%d", m.focus)
	}
	m = send(m, press("tab"))
	if m.focus != 0 {
		t.Fatalf("expected focus to wrap, got %d", m.focus)
	}
}

func TestWindowFocusTogglesVisibility(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)

	m = send(m, tea.BlurMsg{})
	for _, cv := range m.st.cards {
		if cv.ctrl.Visible() {
			t.Fatalf("expected %s hidden", cv.opts.Name)
		}
	}
	m = send(m, motion(28, 10))
	if m.st.cards[0].ctrl.Interacting() {
		t.Fatal("hidden card should ignore the pointer")
	}

	m = send(m, tea.FocusMsg{})
	for _, cv := range m.st.cards {
		if !cv.ctrl.Visible() {
			t.Fatalf("expected %s visible", cv.opts.Name)
		}
	}
}

func TestArtLoadedClearsLoading(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)
	front := image.NewNRGBA(image.Rect(0, 0, art.FaceWidth, art.FaceHeight))

	m = send(m, artLoadedMsg{index: 7, front: front})
	m = send(m, artLoadedMsg{index: 1, front: front})
	if m.st.cards[1].ctrl.Loading() || m.st.cards[1].face.Front != front {
		t.Fatal("expected second card loaded")
	}
	if !m.st.cards[0].ctrl.Loading() || !m.anyLoading() {
		t.Fatal("expected first card still loading")
	}

	msg := loadArtCmd(0, m.st.cards[0].opts)().(artLoadedMsg)
	if msg.front == nil || msg.err != nil {
		t.Fatalf("expected generated face, err=%v", msg.err)
	}
}

func TestFrameTickerStopsWhenIdle(t *testing.T) {
	m, clk := newTestModel(t, Options{}, 80, 40)
	m = runFrames(m, clk, time.Second)
	if m.ticking {
		t.Fatal("expected ticker to stop once nothing animates")
	}

	next, cmd := m.Update(press("enter"))
	m = next.(Model)
	if cmd == nil || !m.ticking {
		t.Fatal("expected popping a card to restart the ticker")
	}
}

func TestKeyboardTiltFeedsTracker(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)

	m = send(m, press("enter"))
	// Tapping re-baselines, so the first nudge becomes the new level.
	m = send(m, press("right"))
	m = send(m, press("right"))
	if got := m.st.tracker.Get().Relative.Gamma; got != tiltStep {
		t.Fatalf("expected relative gamma %v, got %v", tiltStep, got)
	}

	m = send(m, press("0"))
	if got := m.st.tracker.Get().Relative.Gamma; got != 0 {
		t.Fatalf("expected level after rebase, got %v", got)
	}
}

func TestSourceToggle(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)
	m = send(m, press("o"))
	if m.source != TiltKeys || !strings.Contains(m.status, "no orientation recording") {
		t.Fatalf("expected keys source without a recording, status %q", m.status)
	}

	rec := []orientation.Event{orientation.NewEvent(0, 10, 0), orientation.NewEvent(0, 12, 0)}
	m, clk := newTestModel(t, Options{Recording: rec}, 80, 40)
	m = send(m, press("o"))
	if m.source != TiltReplay {
		t.Fatal("expected replay source")
	}
	m = runFrames(m, clk, 100*time.Millisecond)
	if got := m.st.tracker.Get().Absolute.Beta; got != 10 && got != 12 {
		t.Fatalf("expected replayed beta, got %v", got)
	}
	m = send(m, press("right"))
	if !strings.Contains(m.status, "recording") {
		t.Fatalf("expected keys disabled during replay, status %q", m.status)
	}
	m = send(m, press("o"))
	if m.source != TiltKeys {
		t.Fatal("expected keys source again")
	}
}

func TestWheelScrollsOverflowingDeck(t *testing.T) {
	m, _ := newTestModel(t, Options{Deck: testDeck(6)}, 40, 20)

	m = send(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if m.st.geo.scroll != scrollStep {
		t.Fatalf("expected scroll %d, got %d", scrollStep, m.st.geo.scroll)
	}
	m = send(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m = send(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.st.geo.scroll != 0 {
		t.Fatalf("expected scroll clamped at top, got %d", m.st.geo.scroll)
	}

	// Focusing a card below the fold scrolls it into view.
	for i := 0; i < 4; i++ {
		m = send(m, press("tab"))
	}
	r := m.st.geo.slot(3)
	if r.Y < 0 || r.Y+r.Height > float64(m.st.geo.rows*2) {
		t.Fatalf("expected focused card in view, slot %+v", r)
	}
}

func TestViewShowsDeck(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)

	view := m.View()
	for _, want := range []string{"holocard", "Test Deck", "2 cards", "Alpha", "Beta", "loading"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines > 40 {
		t.Fatalf("expected view to fit 40 rows, got %d", lines)
	}
}

func TestQuitTearsDown(t *testing.T) {
	m, _ := newTestModel(t, Options{}, 80, 40)
	m = send(m, press("enter"))

	next, cmd := m.Update(press("q"))
	m = next.(Model)
	if cmd == nil || !m.quitting {
		t.Fatal("expected quit")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
	if m.st.tracker.Running() || m.st.active.Get() != nil || m.st.active.Len() != 0 {
		t.Fatal("expected tracker stopped and controllers unsubscribed")
	}
}

func TestTiltSourceCycle(t *testing.T) {
	if TiltKeys.Next(false) != TiltKeys {
		t.Fatal("expected keys without a recording")
	}
	if TiltKeys.Next(true) != TiltReplay || TiltReplay.Next(true) != TiltKeys {
		t.Fatal("expected keys and replay to alternate")
	}
	if TiltReplay.Icon() == "" || TiltKeys.Icon() != "" {
		t.Fatal("unexpected icons")
	}
}

func TestRenderTiltBar(t *testing.T) {
	if got := renderTiltBar(0, 10, 9); got != "────┼────" {
		t.Fatalf("unexpected level bar %q", got)
	}
	if got := renderTiltBar(5, 10, 9); got != "────┼━━──" {
		t.Fatalf("unexpected right bar %q", got)
	}
	if got := renderTiltBar(-20, 10, 9); got != "━━━━┼────" {
		t.Fatalf("unexpected clamped bar %q", got)
	}
}

func TestOutputReadoutFollowsSelectedCard(t *testing.T) {
	m, clk := newTestModel(t, Options{}, 80, 40)
	front := image.NewNRGBA(image.Rect(0, 0, art.FaceWidth, art.FaceHeight))
	for i := range m.st.cards {
		m = send(m, artLoadedMsg{index: i, front: front})
	}

	m = send(m, press("p"))
	if strings.Contains(m.View(), "--card-scale") {
		t.Fatal("expected no readout without a selected card")
	}

	m = send(m, press("tab"))
	if !strings.Contains(m.View(), "Alpha  --card-scale 1.00") {
		t.Fatalf("expected readout for the focused card, got:\n%s", m.View())
	}

	m = send(m, click(28, 10))
	m = runFrames(m, clk, 2*time.Second)
	cv := m.st.cards[0]
	if cv.params != cv.ctrl.Params() {
		t.Fatalf("expected the card view to hold the pushed outputs, got %+v want %+v", cv.params, cv.ctrl.Params())
	}
	if cv.params.Scale <= 1 {
		t.Fatalf("expected popped card to grow, scale %v", cv.params.Scale)
	}
	if want := fmt.Sprintf("--card-scale %.2f", cv.params.Scale); !strings.Contains(m.View(), want) {
		t.Fatalf("expected %q in readout", want)
	}

	m = send(m, press("p"))
	if strings.Contains(m.View(), "--card-scale") {
		t.Fatal("expected p to hide the readout")
	}
}

func TestRenderOutputs(t *testing.T) {
	got := renderOutputs("Alpha", card.RestParams(), 0)
	if !strings.HasPrefix(got, "Alpha  --card-scale 1.00  --rotate-x 0.00") {
		t.Fatalf("unexpected readout %q", got)
	}
	if !strings.Contains(got, "--background-y 50.00") {
		t.Fatalf("expected background in readout %q", got)
	}
	if got := renderOutputs("Alpha", card.RestParams(), 10); got != "Alpha  --c" {
		t.Fatalf("expected readout cut to width, got %q", got)
	}
}

func TestSnapshotSavesTargetCard(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()
	m, clk := newTestModel(t, Options{}, 80, 40)

	m = send(m, press("s"))
	if m.status != "nothing to snapshot" {
		t.Fatalf("expected no snapshot target, status %q", m.status)
	}

	m = send(m, press("tab"))
	next, cmd := m.Update(press("s"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected snapshot command")
	}
	msg, ok := cmd().(snapshotSavedMsg)
	if !ok {
		t.Fatalf("expected snapshotSavedMsg, got %T", cmd())
	}
	if msg.err != nil {
		t.Fatalf("snapshot failed: %v", msg.err)
	}
	if want := snapshotName("Alpha", clk.t); msg.path != want {
		t.Fatalf("expected %q, got %q", want, msg.path)
	}
	if _, err := os.Stat(msg.path); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	m = send(m, msg)
	if !strings.HasPrefix(m.status, "saved ") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestSnapshotName(t *testing.T) {
	at := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)
	if got := snapshotName("Professor's Research", at); got != "professors-research-20261019-150405.webp" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := snapshotName("?!", at); got != "card-20261019-150405.webp" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}

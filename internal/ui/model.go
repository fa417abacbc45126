package ui

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/olivier-w/holocard/internal/art"
	"github.com/olivier-w/holocard/internal/card"
	"github.com/olivier-w/holocard/internal/deck"
	"github.com/olivier-w/holocard/internal/frame"
	"github.com/olivier-w/holocard/internal/orientation"
	"github.com/olivier-w/holocard/internal/sfx"
	"github.com/olivier-w/holocard/internal/store"
)

const (
	tiltStep   = 3.0
	replayRate = 30 // readings per second

	dimTarget    = 0.55
	dimFrequency = 6.0
	dimDamping   = 1.0
	dimEpsilon   = 0.002
)

// Options configure a deck Model.
type Options struct {
	Deck deck.Deck
	FPS  int
	SFX  *sfx.Player
	// Recording, when non-empty, can replace the keyboard as tilt source.
	Recording []orientation.Event
	// Showcase forces the intro sweep on the first card.
	Showcase bool
	Logger   *slog.Logger
	Now      func() time.Time
	Rand     func() float64
}

type cardView struct {
	opts card.Options
	ctrl *card.Controller
	face art.Face
	err  error
	// params is the last output set the controller pushed to the card.
	params card.Params
}

// deckState is shared between the Model copies Bubbletea passes around and
// the hosts the controllers query.
type deckState struct {
	loop    *frame.Loop
	active  *store.Store[*card.Controller]
	tracker *orientation.Tracker
	manual  *orientation.Manual
	replay  *orientation.Replay
	cards   []*cardView
	geo     geometry
	focused bool
}

// Model is the Bubbletea model for a deck of holo cards.
type Model struct {
	st       *deckState
	sfx      *sfx.Player
	log      *slog.Logger
	now      func() time.Time
	fps      int
	deckName string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	mode    art.ColorMode

	source  TiltSource
	outputs bool
	ticking bool
	hovered int
	focus   int

	dim, dimVel float64
	dimSpring   harmonica.Spring

	width, height int
	status        string
	quitting      bool
}

// New lays out opts.Deck and creates a controller per card.
func New(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	st := &deckState{
		loop:    frame.NewLoop(opts.Now()),
		active:  store.New[*card.Controller](nil),
		tracker: orientation.NewTracker(),
		manual:  orientation.NewManual(),
		focused: true,
	}
	if len(opts.Recording) > 0 {
		st.replay = orientation.NewReplay(opts.Recording, time.Second/replayRate, st.loop)
	}
	st.tracker.Start(st.manual)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	m := Model{
		st:        st,
		sfx:       opts.SFX,
		log:       opts.Logger,
		now:       opts.Now,
		fps:       opts.FPS,
		deckName:  opts.Deck.Name,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		mode:      art.DetectColorMode(),
		hovered:   -1,
		focus:     -1,
		dimSpring: harmonica.NewSpring(harmonica.FPS(opts.FPS), dimFrequency, dimDamping),
	}

	for i, o := range opts.Deck.Cards {
		if i == 0 && opts.Showcase {
			o.Showcase = true
		}
		cv := &cardView{params: card.RestParams()}
		st.cards = append(st.cards, cv)
		cv.ctrl = card.NewController(o, card.Deps{
			Active:      st.active,
			Orientation: st.tracker,
			Scheduler:   st.loop,
			Host:        cardHost{st: st, index: i},
			Sink:        card.SinkFunc(func(p card.Params) { cv.params = p }),
			Cues:        opts.SFX.Play,
			Logger:      opts.Logger,
			Rand:        opts.Rand,
		})
		cv.opts = cv.ctrl.Options()
		cv.face = art.Face{
			Holo:    cv.opts.Holo(),
			Gallery: cv.opts.TrainerGallery(),
			Seed:    cv.ctrl.Seed(),
		}
	}
	m.ticking = m.busy()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(windowTitle(m.deckName)), m.spinner.Tick}
	for i, cv := range m.st.cards {
		cmds = append(cmds, loadArtCmd(i, cv.opts))
	}
	if m.ticking {
		cmds = append(cmds, frameCmd(m.fps))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.st.loop.Step(time.Time(msg))
		m.stepDim()
		if m.busy() {
			return m, frameCmd(m.fps)
		}
		m.ticking = false
		return m, nil

	case artLoadedMsg:
		m.sync()
		m.applyArt(msg)
		return m, m.wake()

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("snapshot failed: %v", msg.err)
			m.log.Warn("snapshot", "error", msg.err)
		} else {
			m.status = "saved " + msg.path
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.sync()
		m.width, m.height = msg.Width, msg.Height
		scroll := m.st.geo.scroll
		m.st.geo = layoutGrid(msg.Width, msg.Height, len(m.st.cards))
		m.st.geo.scroll = scroll
		m.st.geo.scrollBy(0)
		m.help.Width = msg.Width
		for _, cv := range m.st.cards {
			cv.ctrl.Scroll()
		}
		return m, m.wake()

	case tea.FocusMsg:
		m.sync()
		m.setVisible(true)
		return m, m.wake()

	case tea.BlurMsg:
		m.sync()
		m.setVisible(false)
		return m, m.wake()

	case tea.MouseMsg:
		m.sync()
		m.handleMouse(msg)
		return m, m.wake()

	case tea.KeyMsg:
		m.sync()
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.TiltUp):
		m.tilt(-tiltStep, 0)
	case key.Matches(msg, m.keys.TiltDown):
		m.tilt(tiltStep, 0)
	case key.Matches(msg, m.keys.TiltLeft):
		m.tilt(0, -tiltStep)
	case key.Matches(msg, m.keys.TiltRight):
		m.tilt(0, tiltStep)
	case key.Matches(msg, m.keys.Rebase):
		m.st.tracker.ResetBase()
		m.st.manual.Nudge(0, 0)
		m.status = "tilt levelled"
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Tap):
		if len(m.st.cards) > 0 {
			if m.focus < 0 {
				m.focus = 0
			}
			m.st.cards[m.focus].ctrl.Tap()
		}
	case key.Matches(msg, m.keys.Close):
		if a := m.st.active.Get(); a != nil {
			a.Blur()
		}
	case key.Matches(msg, m.keys.Source):
		m.switchSource()
	case key.Matches(msg, m.keys.Snapshot):
		i := m.selected()
		if i < 0 {
			m.status = "nothing to snapshot"
			break
		}
		c := m.st.cards[i]
		m.status = "saving snapshot..."
		return m, snapshotCmd(c.face, c.params, snapshotName(c.opts.Name, m.now()))
	case key.Matches(msg, m.keys.Outputs):
		m.outputs = !m.outputs
	case key.Matches(msg, m.keys.Mute):
		if m.sfx.ToggleMute() {
			m.status = "sound off"
		} else {
			m.status = "sound on"
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, m.wake()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X) + 0.5
	y := float64((msg.Y-headerRows)*2) + 1
	inside := msg.Y >= headerRows && msg.Y < headerRows+m.st.geo.rows

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-scrollStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(scrollStep)
	case msg.Action == tea.MouseActionMotion:
		m.hover(x, y, inside)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inside {
			return
		}
		m.hover(x, y, true)
		if i := m.hit(x, y); i >= 0 {
			m.focus = i
			m.st.cards[i].ctrl.Tap()
		} else if a := m.st.active.Get(); a != nil {
			a.Blur()
		}
	}
}

// hover routes the pointer to the topmost card under it and tells the card
// it left, if any, that the pointer is gone.
func (m *Model) hover(x, y float64, inside bool) {
	i := -1
	if inside {
		i = m.hit(x, y)
	}
	if m.hovered >= 0 && m.hovered != i {
		m.st.cards[m.hovered].ctrl.PointerLeave()
	}
	m.hovered = i
	if i >= 0 {
		m.st.cards[i].ctrl.PointerMove(x, y)
	}
}

func (m *Model) hit(x, y float64) int {
	order := m.drawOrder()
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		if r, ok := (cardHost{st: m.st, index: i}).Bounds(); ok && r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// drawOrder lists card indices back to front: by scale, with the active
// card always on top.
func (m *Model) drawOrder() []int {
	order := make([]int, len(m.st.cards))
	for i := range order {
		order[i] = i
	}
	active := m.activeIndex()
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case a == active:
			return 1
		case b == active:
			return -1
		}
		sa, sb := m.st.cards[a].params.Scale, m.st.cards[b].params.Scale
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	return order
}

// selected is the card snapshots and the output readout act on: the
// popover, then keyboard focus, then the card under the pointer.
func (m *Model) selected() int {
	if i := m.activeIndex(); i >= 0 {
		return i
	}
	if m.focus >= 0 {
		return m.focus
	}
	return m.hovered
}

func (m *Model) activeIndex() int {
	a := m.st.active.Get()
	if a == nil {
		return -1
	}
	for i, cv := range m.st.cards {
		if cv.ctrl == a {
			return i
		}
	}
	return -1
}

func (m *Model) scroll(d int) {
	if !m.st.geo.scrollBy(d) {
		return
	}
	for _, cv := range m.st.cards {
		cv.ctrl.Scroll()
	}
}

func (m *Model) moveFocus(d int) {
	n := len(m.st.cards)
	if n == 0 {
		return
	}
	prev := m.focus
	switch {
	case prev < 0 && d > 0:
		m.focus = 0
	case prev < 0:
		m.focus = n - 1
	default:
		m.focus = ((prev+d)%n + n) % n
	}
	if prev >= 0 && prev != m.focus {
		m.st.cards[prev].ctrl.Blur()
	}

	if !m.st.geo.ok() {
		return
	}
	r := m.st.geo.slot(m.focus)
	if r.Y < 0 {
		m.scroll(int(r.Y) - marginY)
	} else if over := int(r.Y+r.Height) - m.st.geo.rows*2; over > 0 {
		m.scroll(over + marginY)
	}
}

func (m *Model) tilt(dBeta, dGamma float64) {
	if m.source != TiltKeys {
		m.status = "tilt follows the recording, press o for keys"
		return
	}
	m.st.manual.Nudge(dBeta, dGamma)
}

func (m *Model) switchSource() {
	next := m.source.Next(m.st.replay != nil)
	if next == m.source {
		m.status = "no orientation recording loaded"
		return
	}
	m.source = next
	if next == TiltReplay {
		m.st.tracker.Start(m.st.replay)
	} else {
		m.st.tracker.Start(m.st.manual)
	}
	m.st.tracker.ResetBase()
	m.status = "tilt from " + next.String()
	m.log.Info("tilt source", "source", next.String())
}

func (m *Model) setVisible(visible bool) {
	m.st.focused = visible
	if !visible && m.hovered >= 0 {
		m.st.cards[m.hovered].ctrl.PointerLeave()
		m.hovered = -1
	}
	for _, cv := range m.st.cards {
		cv.ctrl.SetVisible(visible)
	}
}

func (m *Model) applyArt(msg artLoadedMsg) {
	if msg.index < 0 || msg.index >= len(m.st.cards) {
		return
	}
	cv := m.st.cards[msg.index]
	cv.face.Front = msg.front
	if msg.back != nil {
		cv.face.Back = msg.back
	}
	if msg.err != nil {
		cv.err = msg.err
		m.log.Warn("card art unavailable", "card", cv.opts.Name, "error", msg.err)
	}
	cv.ctrl.ImageLoaded()
}

func (m Model) anyLoading() bool {
	for _, cv := range m.st.cards {
		if cv.ctrl.Loading() {
			return true
		}
	}
	return false
}

// sync brings an idle loop's clock up to date so timers scheduled by input
// are measured from now.
func (m *Model) sync() {
	if !m.ticking {
		m.st.loop.Step(m.now())
	}
}

// wake starts the frame ticker if there is work and it isn't running.
func (m *Model) wake() tea.Cmd {
	if m.ticking || !m.busy() {
		return nil
	}
	m.ticking = true
	return frameCmd(m.fps)
}

func (m *Model) busy() bool {
	return m.st.loop.Pending() || m.dim != m.dimGoal() || m.dimVel != 0
}

func (m *Model) dimGoal() float64 {
	if m.st.active.Get() != nil {
		return dimTarget
	}
	return 0
}

func (m *Model) stepDim() {
	goal := m.dimGoal()
	m.dim, m.dimVel = m.dimSpring.Update(m.dim, m.dimVel, goal)
	if math.Abs(m.dim-goal) < dimEpsilon && math.Abs(m.dimVel) < dimEpsilon {
		m.dim, m.dimVel = goal, 0
	}
}

// Close tears down every controller and stops the tilt feed and audio.
func (m Model) Close() {
	for _, cv := range m.st.cards {
		cv.ctrl.Destroy()
	}
	m.st.tracker.Stop()
	m.sfx.Close()
}

func windowTitle(deckName string) string {
	if deckName == "" {
		return "holocard"
	}
	return fmt.Sprintf("%s · holocard", deckName)
}

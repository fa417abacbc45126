package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/holocard/internal/config"
	"github.com/olivier-w/holocard/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseOpening
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupStatusMsg openStatus

type startupModel struct {
	cfg       config.Config
	log       *slog.Logger
	browser   ui.BrowserModel
	phase     startupPhase
	path      string
	errMsg    string
	width     int
	height    int
	spinner   spinner.Model
	progress  progress.Model
	status    openStatus
	statusCh  chan openStatus
	hasStatus bool
}

func newStartupModel(cfg config.Config, logger *slog.Logger) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#7B5CFF", "#3FD0FF"),
		progress.WithoutPercentage(),
	)

	return startupModel{
		cfg:      cfg,
		log:      logger,
		browser:  ui.NewEmbeddedBrowser(),
		phase:    phaseBrowse,
		spinner:  s,
		progress: p,
	}
}

// opening switches to the opening phase for path. The returned model's Init
// or the caller runs openCmds.
func (m startupModel) opening(path string) startupModel {
	m.phase = phaseOpening
	m.path = path
	m.errMsg = ""
	m.hasStatus = false
	m.status = openStatus{Phase: "deck", Total: openSteps}
	m.statusCh = make(chan openStatus, 16)
	return m
}

func (m startupModel) openCmds() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForStatus(),
		openSelectionCmd(m.path, m.cfg, m.log, m.statusCh),
	)
}

func (m startupModel) Init() tea.Cmd {
	if m.phase == phaseOpening {
		return tea.Batch(tea.SetWindowTitle("holocard"), m.openCmds())
	}
	return tea.Batch(m.browser.Init(), m.spinner.Tick)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 8
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 60 {
			barWidth = 60
		}
		m.progress.Width = barWidth
		if m.phase == phaseBrowse {
			model, cmd := m.browser.Update(msg)
			if browser, ok := model.(ui.BrowserModel); ok {
				m.browser = browser
			}
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		m = m.opening(msg.Path)
		return m, m.openCmds()

	case startupStatusMsg:
		m.hasStatus = true
		m.status = openStatus(msg)
		return m, m.waitForStatus()

	case startupResolvedMsg:
		if msg.err != nil {
			m.log.Error("open deck", "path", m.path, "error", msg.err)
			m.phase = phaseBrowse
			m.errMsg = msg.err.Error()
			m.hasStatus = false
			m.statusCh = nil
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		model, cmd := m.browser.Update(msg)
		if browser, ok := model.(ui.BrowserModel); ok {
			m.browser = browser
		}
		return m, cmd
	}

	return m, nil
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupStatusMsg(status)
	}
}

func (m startupModel) View() string {
	if m.phase == phaseBrowse {
		if m.errMsg == "" {
			return m.browser.View()
		}
		return "\n  holocard\n\n  " + m.renderError() + "\n\n" + indentBlock(m.browser.View(), "  ")
	}

	return m.renderOpeningView()
}

var phaseLabels = map[string]string{
	"deck":  "Reading deck...",
	"sound": "Opening audio...",
	"tilt":  "Loading tilt recording...",
	"ready": "Dealing cards...",
}

func (m startupModel) renderOpeningView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("holocard"))
	b.WriteString("\n\n")

	label, ok := phaseLabels[m.status.Phase]
	if !ok || !m.hasStatus {
		label = "Opening..."
	}
	b.WriteString("  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render(label))
	b.WriteString("\n")

	if m.status.Total > 0 {
		ratio := float64(m.status.Done) / float64(m.status.Total)
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(ratio))
		b.WriteString(fmt.Sprintf("  %d/%d\n", m.status.Done, m.status.Total))
	}

	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m startupModel) renderError() string {
	return startupErrorStyle.Render(m.errMsg)
}

func openSelectionCmd(path string, cfg config.Config, logger *slog.Logger, statusCh chan openStatus) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		model, err := buildDeckModel(path, cfg, logger, func(status openStatus) {
			select {
			case statusCh <- status:
			default:
			}
		})
		return startupResolvedMsg{model: model, err: err}
	}
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)

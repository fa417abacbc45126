package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/holocard/internal/deck"
)

// BrowserSelectedMsg reports the deck picked in the browser. An empty Path
// selects the built-in deck.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg reports that the user left the browser.
type BrowserCancelledMsg struct{}

type builtinItem struct{}

func (i builtinItem) Title() string       { return "Built-in deck" }
func (i builtinItem) Description() string { return "sample cards bundled with holocard" }
func (i builtinItem) FilterValue() string { return "built-in" }

type deckItem struct {
	name string
	ext  string
}

func (i deckItem) Title() string       { return i.name }
func (i deckItem) Description() string { return i.ext }
func (i deckItem) FilterValue() string { return i.name }

type pathItem struct{}

func (i pathItem) Title() string       { return "Open deck file..." }
func (i pathItem) Description() string { return "enter the path of a .json deck" }
func (i pathItem) FilterValue() string { return "path" }

// BrowserModel lists the decks in the current directory. It runs embedded
// in the startup screen and reports its outcome as a message.
type BrowserModel struct {
	list     list.Model
	input    textinput.Model
	pathMode bool
	err      error
}

// NewEmbeddedBrowser scans the current directory for deck files.
func NewEmbeddedBrowser() BrowserModel {
	items := []list.Item{builtinItem{}}

	entries, err := os.ReadDir(".")
	if err != nil {
		err = fmt.Errorf("cannot read directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !deck.IsDeckFile(e.Name()) {
			continue
		}
		ext := filepath.Ext(e.Name())
		items = append(items, deckItem{name: strings.TrimSuffix(e.Name(), ext), ext: ext})
	}
	items = append(items, pathItem{})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "holocard"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "decks/vintage.json"
	ti.CharLimit = 1024
	ti.Width = 60

	return BrowserModel{list: l, input: ti, err: err}
}

// Error returns the directory scan error, if any. The built-in deck is
// still offered when the scan fails.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("holocard")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case builtinItem:
				return m, selectCmd("")
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("holocard · open deck"))
			case deckItem:
				return m, selectCmd(item.name + item.ext)
			}
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if path := strings.TrimSpace(m.input.Value()); path != "" {
				return m, selectCmd(path)
			}
		case "esc":
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("holocard")
		case "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func selectCmd(path string) tea.Cmd {
	return func() tea.Msg { return BrowserSelectedMsg{Path: path} }
}

func (m BrowserModel) View() string {
	if m.pathMode {
		s := "\n"
		s += "  " + headerStyle.Render("holocard") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Deck file:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	if m.err != nil {
		return m.list.View() + "\n  " + errorStyle.Render(m.err.Error())
	}
	return m.list.View()
}

package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserBuiltinSelectionReturnsEmptyPath(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewEmbeddedBrowser()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", cmd())
	}
	if selected.Path != "" {
		t.Fatalf("expected built-in deck, got %q", selected.Path)
	}
}

func TestBrowserDeckSelectionReturnsMessage(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"vintage.json": "[]",
	})
	defer restore()

	m := NewEmbeddedBrowser()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(BrowserModel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", cmd())
	}
	if selected.Path != "vintage.json" {
		t.Fatalf("expected vintage.json, got %q", selected.Path)
	}
}

func TestBrowserPathSelectionReturnsMessage(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewEmbeddedBrowser()
	m.pathMode = true
	m.input.SetValue("  decks/promo.json ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected path selection command")
	}
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", cmd())
	}
	if selected.Path != "decks/promo.json" {
		t.Fatalf("expected trimmed path, got %q", selected.Path)
	}
}

func TestBrowserPathModeEscReturnsToList(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewEmbeddedBrowser()
	m.pathMode = true
	m.input.SetValue("x.json")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(BrowserModel)
	if m.pathMode || m.input.Value() != "" {
		t.Fatal("expected esc to leave path mode and clear input")
	}
}

func TestBrowserCancelReturnsMessage(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewEmbeddedBrowser()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(BrowserCancelledMsg); !ok {
		t.Fatalf("expected BrowserCancelledMsg, got %T", cmd())
	}
}

func TestBrowserListsOnlyDeckFiles(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"vintage.json": "[]",
		"Promo.JSON":   "[]",
		"notes.txt":    "x",
		"front.png":    "x",
	})
	defer restore()

	m := NewEmbeddedBrowser()

	decks := map[string]bool{}
	for _, item := range m.list.Items() {
		if d, ok := item.(deckItem); ok {
			decks[d.name+d.ext] = true
		}
	}
	if len(decks) != 2 || !decks["vintage.json"] || !decks["Promo.JSON"] {
		t.Fatalf("unexpected deck items %v", decks)
	}
	items := m.list.Items()
	if _, ok := items[0].(builtinItem); !ok {
		t.Fatal("expected built-in deck first")
	}
	if _, ok := items[len(items)-1].(pathItem); !ok {
		t.Fatal("expected path entry last")
	}
}

func chdirTemp(t *testing.T, files map[string]string) func() {
	t.Helper()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp dir: %v", err)
	}

	return func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}
}

package deck

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/olivier-w/holocard/internal/card"
)

//go:embed data/default.json
var defaultDeck []byte

// ErrEmpty is returned for a deck file that parses but holds no cards.
var ErrEmpty = errors.New("deck has no cards")

// Deck is a named list of cards.
type Deck struct {
	Name  string
	Cards []card.Options
}

// fileDeck is the object form of a deck file. A bare JSON array of cards is
// accepted too.
type fileDeck struct {
	Name  string         `json:"name"`
	Cards []card.Options `json:"cards"`
}

// Default returns the built-in demo deck.
func Default() (Deck, error) {
	d, err := Parse("built-in", defaultDeck)
	if err != nil {
		return Deck{}, fmt.Errorf("parse embedded deck: %w", err)
	}
	return d, nil
}

// IsDeckFile reports whether name looks like a deck file.
func IsDeckFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// Load reads a deck file. Relative image paths that exist next to the deck
// file are resolved against its directory.
func Load(path string) (Deck, error) {
	if !IsDeckFile(path) {
		return Deck{}, fmt.Errorf("unsupported deck format %s", filepath.Ext(path))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Deck{}, fmt.Errorf("reading deck: %w", err)
	}
	if !utf8.Valid(data) {
		return Deck{}, fmt.Errorf("deck is not valid UTF-8")
	}

	name := strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	d, err := Parse(name, data)
	if err != nil {
		return Deck{}, fmt.Errorf("parse %s: %w", filepath.Base(absPath), err)
	}

	baseDir := filepath.Dir(absPath)
	for i := range d.Cards {
		d.Cards[i].Img = resolveLocal(baseDir, d.Cards[i].Img)
		d.Cards[i].Foil = resolveLocal(baseDir, d.Cards[i].Foil)
		d.Cards[i].Mask = resolveLocal(baseDir, d.Cards[i].Mask)
	}
	return d, nil
}

// Parse decodes a deck from JSON. The name in an object-form deck wins over
// the given name.
func Parse(name string, data []byte) (Deck, error) {
	trimmed := strings.TrimSpace(string(data))
	var fd fileDeck
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &fd.Cards); err != nil {
			return Deck{}, err
		}
	} else if err := json.Unmarshal(data, &fd); err != nil {
		return Deck{}, err
	}

	if len(fd.Cards) == 0 {
		return Deck{}, ErrEmpty
	}
	if fd.Name != "" {
		name = fd.Name
	}
	return Deck{Name: name, Cards: fd.Cards}, nil
}

func resolveLocal(baseDir, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http") || filepath.IsAbs(ref) {
		return ref
	}
	p := filepath.Join(baseDir, ref)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	return ref
}

package card

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ImageBase is prepended to front image names that are neither absolute
// URLs nor rooted paths.
const ImageBase = "https://images.pokemontcg.io/"

// DefaultBack is the stock card back.
const DefaultBack = "https://tcg.pokemon.com/assets/img/global/tcg-card-back-2x.jpg"

// Words is a list of lower-case words that decodes from either a JSON string
// or a JSON array of strings.
type Words []string

func (w *Words) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = strings.Fields(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*w = list
	return nil
}

// String joins the words with single spaces.
func (w Words) String() string {
	return strings.Join(w, " ")
}

// Has reports whether word is in the list, case-insensitively.
func (w Words) Has(word string) bool {
	for _, x := range w {
		if strings.EqualFold(x, word) {
			return true
		}
	}
	return false
}

// Options describes one card.
type Options struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    string `json:"number"`
	Set       string `json:"set"`
	Types     Words  `json:"types"`
	Subtypes  Words  `json:"subtypes"`
	Supertype string `json:"supertype"`
	Rarity    string `json:"rarity"`
	Img       string `json:"img"`
	Back      string `json:"back"`
	Foil      string `json:"foil"`
	Mask      string `json:"mask"`
	Showcase  bool   `json:"showcase"`
}

var trainerGalleryNumber = regexp.MustCompile(`(?i)^[tg]g`)

// Normalize fills defaults and lower-cases the fields the renderer keys on.
func (o Options) Normalize() Options {
	if len(o.Subtypes) == 0 {
		o.Subtypes = Words{"basic"}
	}
	if o.Supertype == "" {
		o.Supertype = "pokémon"
	}
	if o.Rarity == "" {
		o.Rarity = "common"
	}
	if o.Back == "" {
		o.Back = DefaultBack
	}

	o.Rarity = strings.ToLower(o.Rarity)
	o.Supertype = strings.ToLower(o.Supertype)
	o.Number = strings.ToLower(o.Number)
	o.Types = lowerWords(o.Types)
	o.Subtypes = lowerWords(o.Subtypes)
	return o
}

func lowerWords(w Words) Words {
	out := make(Words, len(w))
	for i, s := range w {
		out[i] = strings.ToLower(s)
	}
	return out
}

// TrainerGallery reports whether the card belongs to a trainer gallery
// subset, which uses a different foil treatment.
func (o Options) TrainerGallery() bool {
	return trainerGalleryNumber.MatchString(o.Number) ||
		o.ID == "swshp-SWSH076" || o.ID == "swshp-SWSH077"
}

// FrontImage resolves the front image reference. Absolute URLs and rooted
// paths are kept; anything else is a path under ImageBase unless local
// reports it as an existing local file.
func (o Options) FrontImage(local func(string) bool) string {
	if strings.HasPrefix(o.Img, "http") || strings.HasPrefix(o.Img, "/") {
		return o.Img
	}
	if o.Img != "" && local != nil && local(o.Img) {
		return o.Img
	}
	return ImageBase + o.Img
}

// Masked reports whether a foil mask is configured.
func (o Options) Masked() bool {
	return o.Mask != ""
}

// Holo reports whether the rarity carries a holographic foil.
func (o Options) Holo() bool {
	return strings.Contains(o.Rarity, "holo") || strings.Contains(o.Rarity, "rare") || o.Masked()
}

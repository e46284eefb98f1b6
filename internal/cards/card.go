package cards

import (
	"fmt"

	"codeberg.org/snonux/zhuyin/internal/taxonomy"
)

// Category is the type of a card
type Category string

const (
	All        Category = "all"
	Consonants Category = "consonants"
	Vowels     Category = "vowels"
	Tones      Category = "tones"
)

// Categories lists the card types in build order
var Categories = []Category{Consonants, Vowels, Tones}

// labels are the fixed Spanish display names
var labels = map[Category]string{
	All:        "Todos",
	Consonants: "Consonantes",
	Vowels:     "Vocales",
	Tones:      "Tonos",
}

// Label returns the Spanish display name of the category
func (c Category) Label() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory validates a filter value. The empty string means All.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case "":
		return All, nil
	case All, Consonants, Vowels, Tones:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q (expected all, consonants, vowels or tones)", s)
	}
}

// Card is one normalized unit of study material. Consonants, vowels and
// tones all share this shape; the tone-only fields are zero for the others.
type Card struct {
	Type            Category
	Zhuyin          string // display symbol; the tone mark for tones
	Pinyin          string // romanization; "Tono N" for tones
	ExampleWord     *taxonomy.Word
	ExampleSentence *taxonomy.Sentence // always nil for tones
	Note            string
	Mnemotecnia     string

	ToneNumber  int
	ToneMark    string
	Description string
}

// IsTone reports whether the card was built from a tone entry
func (c Card) IsTone() bool {
	return c.Type == Tones
}

// Build flattens the taxonomy into one card per raw entry, in source order:
// consonants, vowels, then tones. Missing categories contribute nothing.
func Build(t *taxonomy.Taxonomy) []Card {
	if t == nil {
		return []Card{}
	}

	cards := make([]Card, 0, t.Len())

	for _, item := range t.Consonants {
		cards = append(cards, fromEntry(Consonants, item))
	}

	for _, item := range t.Vowels {
		cards = append(cards, fromEntry(Vowels, item))
	}

	for _, item := range t.Tones {
		cards = append(cards, fromTone(item))
	}

	return cards
}

func fromEntry(category Category, item taxonomy.Entry) Card {
	return Card{
		Type:            category,
		Zhuyin:          item.Zhuyin,
		Pinyin:          item.Pinyin,
		ExampleWord:     item.ExampleWord,
		ExampleSentence: item.ExampleSentence,
		Note:            item.Note,
		Mnemotecnia:     item.Mnemotecnia,
	}
}

// fromTone maps the tone record onto the common card shape
func fromTone(item taxonomy.ToneEntry) Card {
	example := item.Example
	return Card{
		Type:        Tones,
		Zhuyin:      item.Mark,
		Pinyin:      fmt.Sprintf("Tono %d", item.ToneNumber),
		ExampleWord: &example,
		ToneNumber:  item.ToneNumber,
		ToneMark:    item.Mark,
		Description: item.Description,
	}
}

// Filter keeps the cards of one category, preserving order. All returns
// a copy of the input.
func Filter(cards []Card, category Category) []Card {
	result := make([]Card, 0, len(cards))
	for _, c := range cards {
		if category == All || c.Type == category {
			result = append(result, c)
		}
	}
	return result
}

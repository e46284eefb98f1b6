package audiopath

import "codeberg.org/snonux/zhuyin/internal/cards"

// Kind classifies an audio asset
type Kind string

const (
	KindZhuyinSound    Kind = "zhuyin_sound"
	KindWord           Kind = "word"
	KindSentence       Kind = "sentence"
	KindIndividualWord Kind = "individual_word"
	KindToneExample    Kind = "tone_example"
)

// Asset is one audio file the card set refers to, with the text to speak
type Asset struct {
	Kind     Kind
	Category cards.Category
	Path     string
	Text     string
}

// Manifest lists every audio file the given cards can play. Isolated zhuyin
// sounds come first, followed by the examples of each card in card order.
// Assets sharing a path are listed once.
func (r Resolver) Manifest(list []cards.Card) []Asset {
	var assets []Asset
	seen := make(map[string]bool)

	add := func(a Asset) {
		if seen[a.Path] {
			return
		}
		seen[a.Path] = true
		assets = append(assets, a)
	}

	for _, c := range list {
		if c.IsTone() {
			continue
		}
		add(Asset{
			Kind:     KindZhuyinSound,
			Category: c.Type,
			Path:     r.ZhuyinSound(c),
			Text:     SpokenSound(c),
		})
	}

	for _, c := range list {
		if path, ok := r.Word(c); ok {
			kind := KindWord
			if c.IsTone() {
				kind = KindToneExample
			}
			add(Asset{Kind: kind, Category: c.Type, Path: path, Text: c.ExampleWord.Characters})
		}

		if path, ok := r.Sentence(c); ok {
			add(Asset{Kind: KindSentence, Category: c.Type, Path: path, Text: c.ExampleSentence.Characters})

			for _, w := range c.ExampleSentence.Words {
				add(Asset{
					Kind:     KindIndividualWord,
					Category: c.Type,
					Path:     r.IndividualWord(w.Characters, w.Pinyin),
					Text:     w.Characters,
				})
			}
		}
	}

	return assets
}

// SpokenSound is the text synthesized for a card's isolated sound.
// Consonants are voiced with a trailing "a"; vowels are spoken from the
// zhuyin symbol itself, which TTS engines read as Mandarin.
func SpokenSound(c cards.Card) string {
	if c.Type == cards.Consonants {
		return firstToken(c.Pinyin) + "a"
	}
	return c.Zhuyin
}

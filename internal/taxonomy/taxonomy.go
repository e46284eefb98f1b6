package taxonomy

import "strings"

// Taxonomy is the decoded data file: three ordered lists of study entries.
// It is never modified after Load returns.
type Taxonomy struct {
	Consonants []Entry     `json:"consonants"`
	Vowels     []Entry     `json:"vowels"`
	Tones      []ToneEntry `json:"tones"`
}

// document mirrors the top level of the JSON data file
type document struct {
	System *Taxonomy `json:"zhuyin_system"`
}

// Entry is a consonant or vowel record
type Entry struct {
	Zhuyin          string    `json:"zhuyin"`
	Pinyin          string    `json:"pinyin"`
	ExampleWord     *Word     `json:"example_word,omitempty"`
	ExampleSentence *Sentence `json:"example_sentence,omitempty"`
	Note            string    `json:"note,omitempty"`
	Mnemotecnia     string    `json:"mnemotecnia,omitempty"` // may contain **bold** markup
}

// Word is an example word attached to an entry or a tone
type Word struct {
	Characters   string `json:"characters"`
	Pinyin       string `json:"pinyin"`
	Meaning      string `json:"meaning"`
	ZhuyinTyping string `json:"zhuyin_typing,omitempty"`
}

// Sentence is an example sentence with its word breakdown
type Sentence struct {
	Characters         string    `json:"characters"`
	SpanishTranslation string    `json:"spanish_translation,omitempty"`
	Words              []SubWord `json:"words"`
}

// Translation returns the Spanish translation of the sentence, or the
// known meanings of its words joined by spaces when the data file has none
func (s *Sentence) Translation() string {
	if s.SpanishTranslation != "" {
		return s.SpanishTranslation
	}
	var meanings []string
	for _, w := range s.Words {
		if w.Meaning != "" {
			meanings = append(meanings, w.Meaning)
		}
	}
	return strings.Join(meanings, " ")
}

// SubWord is one item of a sentence breakdown
type SubWord struct {
	Characters string `json:"characters"`
	Pinyin     string `json:"pinyin"`
	Meaning    string `json:"meaning,omitempty"`
}

// ToneEntry is a tone record. Its shape differs from Entry and is
// normalized by the cards package.
type ToneEntry struct {
	Mark        string `json:"mark"`
	ToneNumber  int    `json:"tone_number"`
	Description string `json:"description"`
	Example     Word   `json:"example"`
}

// Len returns the total number of raw entries across all categories
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Consonants) + len(t.Vowels) + len(t.Tones)
}

package audiopath

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/zhuyin/internal/cards"
)

// FormatVersion identifies the on-disk layout produced by Resolver. Bump it
// whenever a path changes so existing audio trees can be regenerated.
const FormatVersion = 1

// DefaultBase is the audio root used when none is configured
const DefaultBase = "zhuyin_audios/"

// Sentence file names keep only this many leading characters
const sentencePrefixLen = 10

const (
	zhuyinSoundsDir    = "zhuyin_sounds"
	individualWordsDir = "individual_words"
	toneExamplesDir    = "tones/examples"
)

// Resolver maps cards to audio file paths. Base is prepended verbatim and
// normally ends with a slash.
type Resolver struct {
	Base string
}

// NewResolver returns a resolver rooted at dir, adding the trailing slash
// when it is missing
func NewResolver(dir string) Resolver {
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return Resolver{Base: dir}
}

// ZhuyinSound returns the path of the isolated sound of the card's symbol
func (r Resolver) ZhuyinSound(card cards.Card) string {
	return fmt.Sprintf("%s%s/%s_%s.mp3", r.Base, zhuyinSoundsDir, Sanitize(card.Zhuyin), firstToken(card.Pinyin))
}

// Word returns the path of the card's example word recording
func (r Resolver) Word(card cards.Card) (string, bool) {
	w := card.ExampleWord
	if w == nil {
		return "", false
	}

	if card.IsTone() {
		return fmt.Sprintf("%s%s/tono_%d_%s_%s.mp3",
			r.Base, toneExamplesDir, card.ToneNumber, Sanitize(w.Characters), w.Pinyin), true
	}
	return fmt.Sprintf("%s%s/words/%s_%s_%s.mp3",
		r.Base, card.Type, Sanitize(card.Zhuyin), Sanitize(w.Characters), w.Pinyin), true
}

// Sentence returns the path of the card's example sentence recording
func (r Resolver) Sentence(card cards.Card) (string, bool) {
	s := card.ExampleSentence
	if s == nil {
		return "", false
	}

	dir := string(card.Type) + "/sentences"
	if card.IsTone() {
		dir = toneExamplesDir
	}
	return fmt.Sprintf("%s%s/%s_%s.mp3",
		r.Base, dir, Sanitize(card.Zhuyin), Sanitize(truncate(s.Characters, sentencePrefixLen))), true
}

// IndividualWord returns the path of one word of a sentence breakdown
func (r Resolver) IndividualWord(characters, pinyin string) string {
	return fmt.Sprintf("%s%s/%s_%s.mp3", r.Base, individualWordsDir, Sanitize(characters), pinyin)
}

// Pronunciation returns what "play the sound of this card" plays. Tones have
// no isolated recording, so their example word is played instead.
func (r Resolver) Pronunciation(card cards.Card) (string, bool) {
	if card.IsTone() {
		return r.Word(card)
	}
	return r.ZhuyinSound(card), true
}

// Sanitize turns text into a file name component. Reserved file name
// characters are dropped, whitespace and sentence punctuation become
// underscores, runs of underscores collapse and the result is trimmed of
// underscores at both ends.
func Sanitize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	lastUnderscore := false
	for _, r := range text {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			continue
		case isSeparator(r):
			r = '_'
		}

		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		sb.WriteRune(r)
	}

	return strings.Trim(sb.String(), "_")
}

// isSeparator matches whitespace as JavaScript's \s does, which unlike
// unicode.IsSpace includes U+FEFF and excludes U+0085, plus punctuation
func isSeparator(r rune) bool {
	switch {
	case r >= '\t' && r <= '\r', r == ' ', r == '\u00A0', r == '\u1680':
		return true
	case r >= '\u2000' && r <= '\u200A':
		return true
	case r == '\u2028', r == '\u2029', r == '\u202F', r == '\u205F', r == '\u3000', r == '\uFEFF':
		return true
	}
	return strings.ContainsRune(".,!?;:，。！？；：", r)
}

func firstToken(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// truncate keeps the first n runes of s. Characters outside the BMP count
// once here, not as two UTF-16 code units.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// longest pinyin syllable, "zhuang"
const maxSyllableLen = 6

// ValidateMandarinText checks that text is something a Mandarin voice can
// read: it must contain Chinese characters or Bopomofo, or be a single
// pinyin syllable such as the "ba" used to voice a consonant.
func ValidateMandarinText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	hasChinese := false
	latin := 0
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Bopomofo):
			hasChinese = true
		case unicode.IsLetter(r) && unicode.In(r, unicode.Latin):
			latin++
		case unicode.IsLetter(r):
			return fmt.Errorf("text contains characters outside Mandarin scripts: %q", r)
		}
	}

	if hasChinese {
		return nil
	}
	if latin > 0 && latin <= maxSyllableLen && !strings.ContainsFunc(text, unicode.IsSpace) {
		return nil
	}
	return fmt.Errorf("text must contain Chinese characters, Bopomofo or a pinyin syllable")
}

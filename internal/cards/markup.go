package cards

import (
	"html"
	"regexp"
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// Span is a run of text that is either bold or plain
type Span struct {
	Text string
	Bold bool
}

// Spans splits text at its **text** markers. Empty runs are dropped.
func Spans(text string) []Span {
	var spans []Span
	last := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		if m[3] > m[2] {
			spans = append(spans, Span{Text: text[m[2]:m[3]], Bold: true})
		}
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// RenderMnemonic replaces every **text** span using bold, leaving the rest
// of the text untouched. Matching is non-greedy.
func RenderMnemonic(text string, bold func(string) string) string {
	return boldPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := boldPattern.FindStringSubmatch(m)[1]
		return bold(inner)
	})
}

// MnemonicHTML renders the mnemonic for HTML output, escaping the text
// and turning **text** into <strong>text</strong>
func MnemonicHTML(text string) string {
	return RenderMnemonic(html.EscapeString(text), func(s string) string {
		return "<strong>" + s + "</strong>"
	})
}

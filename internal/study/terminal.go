package study

import (
	"os"

	"golang.org/x/term"
	"golang.org/x/text/width"
)

// DefaultWidth is used when the terminal size is unknown
const DefaultWidth = 80

// TerminalWidth returns the column count of the terminal behind f
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// IsTerminal reports whether f is an interactive terminal, which decides
// whether colors are used
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// displayWidth counts the terminal columns of s. Zhuyin, Han and full
// width punctuation take two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// pad appends spaces to s until it fills cols columns
func pad(s string, cols int) string {
	for w := displayWidth(s); w < cols; w++ {
		s += " "
	}
	return s
}

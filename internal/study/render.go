package study

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"codeberg.org/snonux/zhuyin/internal/cards"
)

// overviewCell is the column width of one overview grid item
const overviewCell = 12

type palette struct {
	symbol  *color.Color
	pinyin  *color.Color
	label   *color.Color
	faint   *color.Color
	bold    *color.Color
	heading *color.Color
	prompt  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		symbol:  color.New(color.FgHiRed, color.Bold),
		pinyin:  color.New(color.FgHiWhite),
		label:   color.New(color.FgCyan),
		faint:   color.New(color.FgHiBlack),
		bold:    color.New(color.FgYellow, color.Bold),
		heading: color.New(color.FgHiCyan, color.Bold),
		prompt:  color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.symbol, p.pinyin, p.label, p.faint, p.bold, p.heading, p.prompt} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render prints the current view: the overview grid when overview mode is
// on, the current card otherwise
func (s *Session) Render() {
	if s.prefs.OverviewMode {
		s.renderOverview()
		return
	}
	s.renderCard()
}

func (s *Session) renderOverview() {
	list := s.state.Cards()
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.pal.heading.Sprintf("Vista General - %s", s.state.Category().Label()))
	fmt.Fprintln(s.out, s.pal.faint.Sprintf("%d elementos", len(list)))

	perRow := s.width / overviewCell
	if perRow < 1 {
		perRow = 1
	}

	var row strings.Builder
	for i, c := range list {
		item := c.Zhuyin
		if s.prefs.ShowPinyin {
			item += " " + c.Pinyin
		}
		row.WriteString(pad(item, overviewCell))

		if (i+1)%perRow == 0 || i == len(list)-1 {
			fmt.Fprintln(s.out, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
}

func (s *Session) renderCard() {
	v := s.state.View()
	fmt.Fprintln(s.out)

	if !v.HasCard {
		fmt.Fprintf(s.out, "No cards in %s\n", v.Category.Label())
		return
	}

	c := v.Card
	fmt.Fprintln(s.out, s.pal.faint.Sprintf("[%d/%d] %s", v.Index+1, v.Total, c.Type.Label()))
	fmt.Fprintln(s.out, "  "+s.pal.symbol.Sprint(c.Zhuyin))
	if s.prefs.ShowPinyin {
		fmt.Fprintln(s.out, "  "+s.pal.pinyin.Sprint(c.Pinyin))
	}
	if c.IsTone() && c.Description != "" {
		fmt.Fprintln(s.out, "  "+c.Description)
	}

	if v.Flipped {
		s.renderBack(c)
	}
}

func (s *Session) renderBack(c cards.Card) {
	fmt.Fprintln(s.out, s.pal.faint.Sprint("  ----"))

	if w := c.ExampleWord; w != nil {
		line := fmt.Sprintf("%s  %s", w.Characters, w.Pinyin)
		if w.ZhuyinTyping != "" {
			line += "  " + w.ZhuyinTyping
		}
		s.field("Ejemplo", line)
		if w.Meaning != "" {
			fmt.Fprintln(s.out, "           "+w.Meaning)
		}
	}

	if sentence := c.ExampleSentence; sentence != nil {
		s.field("Oración", sentence.Characters)
		if t := sentence.Translation(); t != "" {
			fmt.Fprintln(s.out, "           "+t)
		}
		for i, w := range sentence.Words {
			line := fmt.Sprintf("    %d. %s  %s", i+1, w.Characters, w.Pinyin)
			if w.Meaning != "" {
				line += "  " + s.pal.faint.Sprint(w.Meaning)
			}
			fmt.Fprintln(s.out, line)
		}
	}

	if c.Note != "" {
		s.field("Nota", s.markup(c.Note))
	}
	if c.Mnemotecnia != "" {
		s.field("Mnemotecnia", s.markup(c.Mnemotecnia))
	}
}

func (s *Session) field(name, value string) {
	fmt.Fprintf(s.out, "  %s %s\n", s.pal.label.Sprint(pad(name+":", 8)), value)
}

// markup renders **bold** spans with the bold color
func (s *Session) markup(text string) string {
	return cards.RenderMnemonic(text, func(inner string) string {
		return s.pal.bold.Sprint(inner)
	})
}

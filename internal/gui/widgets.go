package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/taxonomy"
)

// CardView is the flip card: the symbol on the front, the examples and the
// notes on the back. Tapping it flips the card.
type CardView struct {
	widget.BaseWidget

	container   *fyne.Container
	typeLabel   *widget.Label
	symbol      *canvas.Text
	pinyin      *widget.Label
	description *widget.Label
	back        *widget.RichText
	words       *fyne.Container
	backSection *fyne.Container

	// OnTapped is called when the card itself is tapped
	OnTapped func()

	// OnWordTapped plays one word of the example sentence
	OnWordTapped func(w taxonomy.SubWord)
}

// NewCardView creates an empty card view
func NewCardView() *CardView {
	v := &CardView{}

	v.typeLabel = widget.NewLabel("")
	v.typeLabel.Alignment = fyne.TextAlignCenter
	v.typeLabel.TextStyle = fyne.TextStyle{Italic: true}

	v.symbol = canvas.NewText("", theme.Color(theme.ColorNamePrimary))
	v.symbol.TextSize = 96
	v.symbol.Alignment = fyne.TextAlignCenter

	v.pinyin = widget.NewLabel("")
	v.pinyin.Alignment = fyne.TextAlignCenter
	v.pinyin.TextStyle = fyne.TextStyle{Bold: true}

	v.description = widget.NewLabel("")
	v.description.Alignment = fyne.TextAlignCenter
	v.description.Wrapping = fyne.TextWrapWord

	v.back = widget.NewRichText()
	v.back.Wrapping = fyne.TextWrapWord
	v.words = container.NewGridWrap(fyne.NewSize(150, 40))
	v.backSection = container.NewVBox(widget.NewSeparator(), v.back, v.words)

	v.container = container.NewVBox(
		v.typeLabel,
		v.symbol,
		v.pinyin,
		v.description,
		v.backSection,
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *CardView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewVScroll(v.container))
}

// Tapped implements fyne.Tappable
func (v *CardView) Tapped(*fyne.PointEvent) {
	if v.OnTapped != nil {
		v.OnTapped()
	}
}

// SetCard shows c, with its back when flipped
func (v *CardView) SetCard(c cards.Card, flipped, showPinyin bool) {
	v.typeLabel.SetText(c.Type.Label())
	v.symbol.Text = c.Zhuyin
	v.symbol.Refresh()

	v.pinyin.SetText(c.Pinyin)
	setVisible(v.pinyin, showPinyin)

	v.description.SetText(c.Description)
	setVisible(v.description, c.IsTone() && c.Description != "")

	if !flipped {
		v.backSection.Hide()
		return
	}

	v.back.Segments = backSegments(c)
	v.back.Refresh()

	v.words.Objects = nil
	if s := c.ExampleSentence; s != nil {
		for i, w := range s.Words {
			v.words.Add(widget.NewButtonWithIcon(fmt.Sprintf("%d. %s %s", i+1, w.Characters, w.Pinyin), theme.VolumeUpIcon(), func() {
				if v.OnWordTapped != nil {
					v.OnWordTapped(w)
				}
			}))
		}
	}
	v.words.Refresh()
	v.backSection.Show()
}

// SetEmpty shows message instead of a card
func (v *CardView) SetEmpty(message string) {
	v.typeLabel.SetText(message)
	v.symbol.Text = ""
	v.symbol.Refresh()
	v.pinyin.Hide()
	v.description.Hide()
	v.backSection.Hide()
}

// backSegments lays out the back of c, one field per paragraph
func backSegments(c cards.Card) []widget.RichTextSegment {
	var segs []widget.RichTextSegment

	if w := c.ExampleWord; w != nil {
		text := w.Characters + "  " + w.Pinyin
		if w.ZhuyinTyping != "" {
			text += "  " + w.ZhuyinTyping
		}
		segs = append(segs, paragraph(label("Ejemplo"), plain(text))...)
		if w.Meaning != "" {
			segs = append(segs, paragraph(plain(w.Meaning))...)
		}
	}

	if s := c.ExampleSentence; s != nil {
		segs = append(segs, paragraph(label("Oración"), plain(s.Characters))...)
		if t := s.Translation(); t != "" {
			segs = append(segs, paragraph(plain(t))...)
		}
	}

	if c.Note != "" {
		segs = append(segs, paragraph(append([]*widget.TextSegment{label("Nota")}, markup(c.Note)...)...)...)
	}
	if c.Mnemotecnia != "" {
		segs = append(segs, paragraph(append([]*widget.TextSegment{label("Mnemotecnia")}, markup(c.Mnemotecnia)...)...)...)
	}

	return segs
}

func label(name string) *widget.TextSegment {
	return &widget.TextSegment{Text: name + ": ", Style: widget.RichTextStyleStrong}
}

func plain(text string) *widget.TextSegment {
	return &widget.TextSegment{Text: text, Style: widget.RichTextStyleInline}
}

// markup turns **text** spans into bold segments
func markup(text string) []*widget.TextSegment {
	var segs []*widget.TextSegment
	for _, span := range cards.Spans(text) {
		if span.Bold {
			segs = append(segs, &widget.TextSegment{Text: span.Text, Style: widget.RichTextStyleStrong})
		} else {
			segs = append(segs, plain(span.Text))
		}
	}
	return segs
}

// paragraph ends the line after the last segment
func paragraph(segs ...*widget.TextSegment) []widget.RichTextSegment {
	out := make([]widget.RichTextSegment, len(segs))
	for i, s := range segs {
		if i == len(segs)-1 {
			s.Style.Inline = false
		}
		out[i] = s
	}
	return out
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

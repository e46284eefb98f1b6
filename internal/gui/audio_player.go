package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/zhuyin/internal/audiopath"
	"codeberg.org/snonux/zhuyin/internal/cards"
)

// Player is the part of the audio player the window uses
type Player interface {
	Play(path string)
	Stop()
}

// AudioControls holds the play buttons of the current card
type AudioControls struct {
	widget.BaseWidget

	container      *fyne.Container
	soundButton    *ttwidget.Button
	wordButton     *ttwidget.Button
	sentenceButton *ttwidget.Button
	stopButton     *ttwidget.Button
	statusLabel    *widget.Label

	player   Player
	sound    string
	word     string
	sentence string
}

// NewAudioControls creates the controls playing through player
func NewAudioControls(player Player) *AudioControls {
	c := &AudioControls{player: player}

	c.soundButton = ttwidget.NewButtonWithIcon("Sonido", theme.VolumeUpIcon(), c.PlaySound)
	c.wordButton = ttwidget.NewButtonWithIcon("Palabra", theme.MediaPlayIcon(), c.PlayWord)
	c.sentenceButton = ttwidget.NewButtonWithIcon("Oración", theme.MediaPlayIcon(), c.PlaySentence)
	c.stopButton = ttwidget.NewButtonWithIcon("", theme.MediaStopIcon(), c.Stop)

	c.statusLabel = widget.NewLabel("No audio loaded")

	c.container = container.NewHBox(
		c.soundButton,
		c.wordButton,
		c.sentenceButton,
		c.stopButton,
		layout.NewSpacer(),
		c.statusLabel,
	)

	c.SetCard(audiopath.Resolver{}, cards.Card{}, false)

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *AudioControls) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// setupTooltips names the keys of each button
func (c *AudioControls) setupTooltips() {
	c.soundButton.SetToolTip("Play the sound (a, Enter on the front)")
	c.wordButton.SetToolTip("Play the example word (w, Enter on the back)")
	c.sentenceButton.SetToolTip("Play the example sentence (e)")
	c.stopButton.SetToolTip("Stop audio")
}

// SetCard resolves the audio files of card. A button without a file to
// play is disabled.
func (c *AudioControls) SetCard(r audiopath.Resolver, card cards.Card, ok bool) {
	c.sound, c.word, c.sentence = "", "", ""
	if ok {
		c.sound, _ = r.Pronunciation(card)
		c.word, _ = r.Word(card)
		c.sentence, _ = r.Sentence(card)
	}

	enable(c.soundButton, c.sound != "")
	enable(c.wordButton, c.word != "")
	enable(c.sentenceButton, c.sentence != "")
}

// PlaySound plays the pronunciation of the card
func (c *AudioControls) PlaySound() {
	c.Play(c.sound)
}

// PlayWord plays the example word
func (c *AudioControls) PlayWord() {
	c.Play(c.word)
}

// PlaySentence plays the example sentence
func (c *AudioControls) PlaySentence() {
	c.Play(c.sentence)
}

// Play stops the current clip and starts path
func (c *AudioControls) Play(path string) {
	if path == "" {
		return
	}
	c.player.Play(path)
	c.statusLabel.SetText(fmt.Sprintf("Playing: %s", filepath.Base(path)))
}

// Stop interrupts the current clip
func (c *AudioControls) Stop() {
	c.player.Stop()
	c.statusLabel.SetText("Stopped")
}

func enable(b *ttwidget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// statusWriter shows every warning written to it in a label
type statusWriter struct {
	label *widget.Label
}

func (w statusWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		fyne.Do(func() {
			w.label.SetText(msg)
		})
	}
	return len(p), nil
}

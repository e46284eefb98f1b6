package study

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/snonux/zhuyin/internal/audiopath"
	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/deck"
	"codeberg.org/snonux/zhuyin/internal/settings"
)

// Player is the part of the audio player the session uses
type Player interface {
	Play(path string)
	Stop()
}

// Options configure a Session
type Options struct {
	In    io.Reader
	Out   io.Writer
	Width int  // terminal columns, DefaultWidth when zero
	Color bool // emit ANSI colors
}

// Session is one interactive study run
type Session struct {
	state    *deck.State
	resolver audiopath.Resolver
	player   Player
	store    settings.Store
	prefs    settings.Settings

	in    *bufio.Reader
	out   io.Writer
	width int
	pal   palette
}

// filterKeys maps the number keys to categories
var filterKeys = map[string]cards.Category{
	"1": cards.All,
	"2": cards.Consonants,
	"3": cards.Vowels,
	"4": cards.Tones,
}

// New creates a session on state. The saved preferences are read from
// store right away; a missing or corrupted entry falls back to defaults.
func New(state *deck.State, resolver audiopath.Resolver, player Player, store settings.Store, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.In == nil {
		opts.In = strings.NewReader("")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	return &Session{
		state:    state,
		resolver: resolver,
		player:   player,
		store:    store,
		prefs:    settings.Load(store, opts.Out),
		in:       bufio.NewReader(opts.In),
		out:      opts.Out,
		width:    opts.Width,
		pal:      newPalette(opts.Color),
	}
}

// Settings returns the preferences in effect
func (s *Session) Settings() settings.Settings {
	return s.prefs
}

// Run renders the current card and processes commands until q, the end of
// the input or the cancellation of ctx
func (s *Session) Run(ctx context.Context) error {
	defer s.player.Stop()

	s.Render()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, s.pal.prompt.Sprint("> "))
		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read command: %w", err)
		}
		if line == "" && errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}

		if quit := s.Handle(strings.TrimRight(line, "\r\n")); quit {
			return nil
		}
		s.Render()

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// Handle applies one command line and reports whether the session ends
func (s *Session) Handle(line string) (quit bool) {
	// a lone space flips, like the space bar
	if line == " " {
		line = "f"
	}
	fields := strings.Fields(line)

	cmd := ""
	if len(fields) > 0 {
		cmd = strings.ToLower(fields[0])
	}

	switch cmd {
	case "q", "quit", "exit":
		return true
	case "h", "?", "help":
		s.printHelp()
		return false
	case "y":
		s.prefs.ShowPinyin = !s.prefs.ShowPinyin
		s.savePrefs()
		return false
	case "o":
		s.prefs.OverviewMode = !s.prefs.OverviewMode
		s.savePrefs()
		return false
	case "s":
		s.state.Shuffle()
		return false
	case "1", "2", "3", "4":
		if err := s.state.Filter(filterKeys[cmd]); err != nil {
			s.warn("%v", err)
		}
		return false
	}

	// card commands do nothing while the overview is shown
	if s.prefs.OverviewMode {
		if cmd != "" {
			fmt.Fprintln(s.out, "Overview mode is on, press o to return to the cards")
		}
		return false
	}

	switch cmd {
	case "n", "\x1b[c":
		s.state.Next()
	case "p", "\x1b[d":
		s.state.Previous()
	case "f":
		s.state.Flip()
	case "":
		// Enter plays what the visible side shows
		if s.state.Flipped() {
			s.playWord()
		} else {
			s.playPronunciation()
		}
	case "a":
		s.playPronunciation()
	case "w":
		s.playWord()
	case "e":
		s.playSentence()
	case "i":
		s.playIndividualWord(fields[1:])
	case "j":
		s.jump(fields[1:])
	default:
		s.warn("unknown command %q, press h for help", fields[0])
	}
	return false
}

func (s *Session) playPronunciation() {
	c, ok := s.state.Current()
	if !ok {
		return
	}
	if path, ok := s.resolver.Pronunciation(c); ok {
		s.player.Play(path)
	}
}

func (s *Session) playWord() {
	c, ok := s.state.Current()
	if !ok {
		return
	}
	path, ok := s.resolver.Word(c)
	if !ok {
		s.warn("card %s has no example word", c.Zhuyin)
		return
	}
	s.player.Play(path)
}

func (s *Session) playSentence() {
	c, ok := s.state.Current()
	if !ok {
		return
	}
	path, ok := s.resolver.Sentence(c)
	if !ok {
		s.warn("card %s has no example sentence", c.Zhuyin)
		return
	}
	s.player.Play(path)
}

func (s *Session) playIndividualWord(args []string) {
	c, ok := s.state.Current()
	if !ok {
		return
	}
	if c.ExampleSentence == nil || len(c.ExampleSentence.Words) == 0 {
		s.warn("card %s has no sentence words", c.Zhuyin)
		return
	}

	words := c.ExampleSentence.Words
	n, err := number(args)
	if err != nil || n < 1 || n > len(words) {
		s.warn("usage: i N with N between 1 and %d", len(words))
		return
	}

	w := words[n-1]
	s.player.Play(s.resolver.IndividualWord(w.Characters, w.Pinyin))
}

func (s *Session) jump(args []string) {
	n, err := number(args)
	if err != nil {
		s.warn("usage: j N")
		return
	}
	if err := s.state.Jump(n - 1); err != nil {
		s.warn("%v", err)
	}
}

func number(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one number")
	}
	return strconv.Atoi(args[0])
}

func (s *Session) savePrefs() {
	if err := settings.Save(s.store, s.prefs); err != nil {
		s.warn("could not save settings: %v", err)
	}
}

func (s *Session) warn(format string, args ...interface{}) {
	fmt.Fprintf(s.out, "Warning: "+format+"\n", args...)
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out, `Commands:
  n, →       next card          p, ←       previous card
  f, space   flip the card      Enter      play the visible side
  a          play the sound     w          play the example word
  e          play the sentence  i N        play word N of the sentence
  s          shuffle            1-4        all, consonants, vowels, tones
  y          toggle pinyin      o          toggle the overview
  j N        go to card N       q          quit
`)
}

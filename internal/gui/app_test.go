package gui

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/zhuyin/internal/audiopath"
	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/deck"
	"codeberg.org/snonux/zhuyin/internal/player"
	"codeberg.org/snonux/zhuyin/internal/settings"
	"codeberg.org/snonux/zhuyin/internal/taxonomy"
	"codeberg.org/snonux/zhuyin/internal/testutil"
)

type donePlayback struct{}

func (donePlayback) Stop() error { return nil }
func (donePlayback) Wait() error { return nil }

// recordingBackend remembers every clip it was asked to start
type recordingBackend struct {
	started []string
}

func (b *recordingBackend) Start(path string) (player.Playback, error) {
	b.started = append(b.started, path)
	return donePlayback{}, nil
}

func (b *recordingBackend) last() string {
	if len(b.started) == 0 {
		return ""
	}
	return b.started[len(b.started)-1]
}

type testEnv struct {
	app      *Application
	state    *deck.State
	store    settings.Store
	backend  *recordingBackend
	resolver audiopath.Resolver
	out      *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tax, err := taxonomy.Parse(strings.NewReader(testutil.FixtureJSON))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}

	dir := t.TempDir()
	store, err := settings.Open(settings.BackendFile, filepath.Join(dir, "preferences.toml"))
	if err != nil {
		t.Fatalf("Failed to open settings: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	env := &testEnv{
		state:    deck.New(tax),
		store:    store,
		backend:  &recordingBackend{},
		resolver: audiopath.NewResolver(filepath.Join(dir, "audio")),
		out:      &bytes.Buffer{},
	}
	env.app = newApplication(test.NewTempApp(t), Config{
		State:    env.state,
		Resolver: env.resolver,
		Backend:  env.backend,
		Store:    store,
		Out:      env.out,
	})
	return env
}

// createAudio creates the file behind path so the player accepts it
func createAudio(t *testing.T, path string) {
	t.Helper()
	testutil.CreateTestFile(t, path, testutil.MockMP3())
}

func segmentText(rt *widget.RichText) string {
	var sb strings.Builder
	for _, s := range rt.Segments {
		if ts, ok := s.(*widget.TextSegment); ok {
			sb.WriteString(ts.Text)
		}
	}
	return sb.String()
}

func TestInitialView(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	if got := a.positionLabel.Text; got != "1 / 5" {
		t.Errorf("Position = %q, want 1 / 5", got)
	}
	if a.cardView.symbol.Text != "ㄅ" {
		t.Errorf("Symbol = %q, want ㄅ", a.cardView.symbol.Text)
	}
	if !a.prevBtn.Disabled() {
		t.Error("Previous button enabled on the first card")
	}
	if a.nextBtn.Disabled() {
		t.Error("Next button disabled on the first card")
	}
	if a.cardView.backSection.Visible() {
		t.Error("Back of the card visible before flipping")
	}
	if !a.cardView.pinyin.Visible() {
		t.Error("Pinyin hidden with default settings")
	}
}

func TestKeyboardNavigation(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	if env.state.Index() != 1 || a.positionLabel.Text != "2 / 5" {
		t.Errorf("After → index = %d, position = %q", env.state.Index(), a.positionLabel.Text)
	}

	a.handleRune('p')
	if env.state.Index() != 0 {
		t.Errorf("After p index = %d, want 0", env.state.Index())
	}

	for i := 0; i < 10; i++ {
		a.handleRune('n')
	}
	if env.state.Index() != 4 {
		t.Errorf("Index = %d after moving past the end, want 4", env.state.Index())
	}
	if !a.nextBtn.Disabled() {
		t.Error("Next button enabled on the last card")
	}
}

func TestFlip(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	a.handleKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	if !env.state.Flipped() || !a.cardView.backSection.Visible() {
		t.Fatal("Space did not flip the card")
	}

	back := segmentText(a.cardView.back)
	for _, want := range []string{"Ejemplo: ", "爸爸  bàba  ㄅㄚˋ ㄅㄚ˙", "Mi papá es profesor.", "Mnemotecnia: "} {
		if !strings.Contains(back, want) {
			t.Errorf("Back misses %q: %q", want, back)
		}
	}
	if got := len(a.cardView.words.Objects); got != 4 {
		t.Errorf("Sentence word buttons = %d, want 4", got)
	}

	a.cardView.Tapped(&fyne.PointEvent{})
	if env.state.Flipped() {
		t.Error("Tapping the card did not flip it back")
	}
}

func TestMnemonicBold(t *testing.T) {
	c := cards.Card{Mnemotecnia: "Parece una **b** con sombrero."}

	var bold []string
	for _, s := range backSegments(c) {
		ts := s.(*widget.TextSegment)
		if ts.Style.TextStyle.Bold {
			bold = append(bold, ts.Text)
		}
	}
	if strings.Join(bold, "|") != "Mnemotecnia: |b" {
		t.Errorf("Bold segments = %q", bold)
	}

	segs := backSegments(c)
	if last := segs[len(segs)-1].(*widget.TextSegment); last.Inline() {
		t.Error("Last segment of the paragraph is inline")
	}
}

func TestCategoryKeys(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	a.handleRune('4')
	if env.state.Category() != cards.Tones || env.state.Len() != 2 {
		t.Errorf("After 4 category = %s with %d cards", env.state.Category(), env.state.Len())
	}
	if a.categorySelect.Selected != cards.Tones.Label() {
		t.Errorf("Selector shows %q", a.categorySelect.Selected)
	}
	if !a.cardView.description.Visible() {
		t.Error("Tone description hidden")
	}

	a.onCategorySelected(cards.Vowels.Label())
	if env.state.Category() != cards.Vowels || a.positionLabel.Text != "1 / 1" {
		t.Errorf("After selecting vowels category = %s, position = %q", env.state.Category(), a.positionLabel.Text)
	}
}

func TestPreferencesArePersisted(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	a.handleRune('y')
	if a.prefs.ShowPinyin || a.cardView.pinyin.Visible() {
		t.Error("y did not hide the pinyin")
	}

	a.handleRune('o')
	if !a.prefs.OverviewMode || a.cardPane.Visible() || !a.overviewPane.Visible() {
		t.Error("o did not switch to the overview")
	}

	saved := settings.Load(env.store, env.out)
	if saved.ShowPinyin || !saved.OverviewMode {
		t.Errorf("Saved settings = %+v", saved)
	}

	// a second window starts with the saved preferences
	again := newApplication(test.NewTempApp(t), Config{State: env.state, Backend: env.backend, Store: env.store})
	if again.pinyinCheck.Checked || !again.overviewCheck.Checked {
		t.Error("Saved preferences were not restored")
	}
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	a.handleRune('o')
	if got := len(a.overviewGrid.Objects); got != 5 {
		t.Errorf("Overview shows %d cards, want 5", got)
	}
	if a.overviewTitle.Text != "Vista General - Todos" || a.overviewCount.Text != "5 elementos" {
		t.Errorf("Overview header = %q %q", a.overviewTitle.Text, a.overviewCount.Text)
	}

	// card keys do nothing in the overview
	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	a.handleRune('f')
	if env.state.Index() != 0 || env.state.Flipped() {
		t.Error("Card keys changed the state in the overview")
	}
	if !a.nextBtn.Disabled() || !a.flipBtn.Disabled() {
		t.Error("Card buttons enabled in the overview")
	}

	a.jumpTo(3)
	if a.prefs.OverviewMode || env.state.Index() != 3 {
		t.Errorf("jumpTo(3) overview = %t, index = %d", a.prefs.OverviewMode, env.state.Index())
	}
}

func TestEnterPlaysVisibleSide(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	first, _ := env.state.Current()
	sound, _ := env.resolver.Pronunciation(first)
	word, _ := env.resolver.Word(first)
	createAudio(t, sound)
	createAudio(t, word)

	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	if env.backend.last() != sound {
		t.Errorf("Enter on the front played %q, want %q", env.backend.last(), sound)
	}

	a.handleKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	if env.backend.last() != word {
		t.Errorf("Enter on the back played %q, want %q", env.backend.last(), word)
	}
}

func TestSentenceWordButtons(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	path := env.resolver.IndividualWord("老師", "lǎoshī")
	createAudio(t, path)

	a.onFlip()
	test.Tap(a.cardView.words.Objects[3].(*widget.Button))
	if env.backend.last() != path {
		t.Errorf("Word button played %q, want %q", env.backend.last(), path)
	}
}

func TestAudioButtonsFollowTheCard(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	a.handleRune('2') // consonants; ㄆ has no sentence
	a.onNext()
	if !a.audioControls.sentenceButton.Disabled() {
		t.Error("Sentence button enabled for a card without sentence")
	}
	if a.audioControls.wordButton.Disabled() {
		t.Error("Word button disabled for a card with an example word")
	}
}

func TestMissingAudioWarns(t *testing.T) {
	env := newTestEnv(t)

	env.app.handleRune('a')
	if len(env.backend.started) != 0 {
		t.Errorf("Backend started %v for a missing file", env.backend.started)
	}
	if !strings.Contains(env.out.String(), "Warning: Audio file not found") {
		t.Errorf("Output = %q, want a missing file warning", env.out.String())
	}
}

type failingStore struct {
	settings.Store
}

func (failingStore) Get(string) ([]byte, error) { return nil, settings.ErrNotFound }
func (failingStore) Put(string, []byte) error   { return errors.New("read-only") }

func TestSaveFailureIsReported(t *testing.T) {
	env := newTestEnv(t)
	out := &bytes.Buffer{}
	a := newApplication(test.NewTempApp(t), Config{State: env.state, Backend: env.backend, Store: failingStore{}, Out: out})

	a.handleRune('y')
	if a.prefs.ShowPinyin {
		t.Error("Preference not applied when saving fails")
	}
	if !strings.Contains(a.statusLabel.Text, "Could not save settings") || !strings.Contains(out.String(), "read-only") {
		t.Errorf("Status = %q, output = %q", a.statusLabel.Text, out.String())
	}
}

package gui

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/zhuyin/internal"
	"codeberg.org/snonux/zhuyin/internal/audiopath"
	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/deck"
	"codeberg.org/snonux/zhuyin/internal/player"
	"codeberg.org/snonux/zhuyin/internal/settings"
)

// Application represents the study window
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// Toolbar
	prevBtn        *ttwidget.Button
	nextBtn        *ttwidget.Button
	flipBtn        *ttwidget.Button
	shuffleBtn     *ttwidget.Button
	helpBtn        *ttwidget.Button
	categorySelect *widget.Select
	pinyinCheck    *widget.Check
	overviewCheck  *widget.Check

	// Card and overview
	cardView      *CardView
	cardPane      *fyne.Container
	overviewTitle *widget.Label
	overviewCount *widget.Label
	overviewGrid  *fyne.Container
	overviewPane  *fyne.Container

	audioControls *AudioControls
	positionLabel *widget.Label
	statusLabel   *widget.Label

	state    *deck.State
	resolver audiopath.Resolver
	player   Player
	store    settings.Store
	prefs    settings.Settings
	out      io.Writer
}

// Config holds what the study window works on
type Config struct {
	State    *deck.State
	Resolver audiopath.Resolver
	Backend  player.Backend
	Store    settings.Store

	// Out receives warnings; they are also shown in the status bar
	Out io.Writer
}

// categories lists the filters in the order of the number keys 1 to 4
var categories = []cards.Category{cards.All, cards.Consonants, cards.Vowels, cards.Tones}

// New creates the study window
func New(config Config) *Application {
	fyneApp := app.NewWithID("org.codeberg.snonux.zhuyin")
	fyneApp.SetIcon(GetAppIcon())
	return newApplication(fyneApp, config)
}

func newApplication(fyneApp fyne.App, config Config) *Application {
	if config.Out == nil {
		config.Out = io.Discard
	}

	a := &Application{
		app:      fyneApp,
		state:    config.State,
		resolver: config.Resolver,
		store:    config.Store,
		out:      config.Out,
	}

	a.statusLabel = widget.NewLabel("Ready")
	a.player = player.New(config.Backend, io.MultiWriter(config.Out, statusWriter{a.statusLabel}))
	a.prefs = settings.Load(config.Store, config.Out)

	a.setupUI()
	a.refresh()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Zhuyin v%s - Tarjetas de Zhuyin", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(720, 640))

	a.prevBtn = ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.onPrevious)
	a.nextBtn = ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.onNext)
	a.flipBtn = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onFlip)
	a.shuffleBtn = ttwidget.NewButtonWithIcon("", theme.MediaReplayIcon(), a.onShuffle)
	a.helpBtn = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = c.Label()
	}
	a.categorySelect = widget.NewSelect(labels, a.onCategorySelected)
	a.categorySelect.Selected = a.state.Category().Label()

	a.pinyinCheck = widget.NewCheck("Pinyin", a.onShowPinyin)
	a.pinyinCheck.Checked = a.prefs.ShowPinyin
	a.overviewCheck = widget.NewCheck("Vista general", a.onOverviewMode)
	a.overviewCheck.Checked = a.prefs.OverviewMode

	toolbar := container.NewHBox(
		a.prevBtn,
		a.nextBtn,
		a.flipBtn,
		widget.NewSeparator(),
		a.shuffleBtn,
		a.categorySelect,
		widget.NewSeparator(),
		a.pinyinCheck,
		a.overviewCheck,
		widget.NewSeparator(),
		a.helpBtn,
	)

	a.cardView = NewCardView()
	a.cardView.OnTapped = a.onFlip
	a.cardView.OnWordTapped = a.playIndividualWord
	a.audioControls = NewAudioControls(a.player)
	a.cardPane = container.NewBorder(nil, a.audioControls, nil, nil, a.cardView)

	a.overviewTitle = widget.NewLabel("")
	a.overviewTitle.TextStyle = fyne.TextStyle{Bold: true}
	a.overviewCount = widget.NewLabel("")
	a.overviewGrid = container.NewGridWrap(fyne.NewSize(140, 170))
	a.overviewPane = container.NewBorder(
		container.NewHBox(a.overviewTitle, a.overviewCount),
		nil, nil, nil,
		container.NewVScroll(a.overviewGrid),
	)

	a.positionLabel = widget.NewLabel("")
	a.positionLabel.TextStyle = fyne.TextStyle{Italic: true}
	statusSection := container.NewBorder(nil, nil, nil, a.positionLabel, a.statusLabel)

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), statusSection),
		nil, nil,
		container.NewStack(a.cardPane, a.overviewPane),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.player.Stop()
	})

	a.setupKeyboardShortcuts()
}

// Run shows the window and blocks until it is closed or ctx is cancelled
func (a *Application) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		fyne.Do(a.window.Close)
	})
	defer stop()

	a.window.ShowAndRun()
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.prevBtn.SetToolTip("Previous card (←)")
	a.nextBtn.SetToolTip("Next card (→)")
	a.flipBtn.SetToolTip("Flip the card (space)")
	a.shuffleBtn.SetToolTip("Shuffle (s)")
	a.helpBtn.SetToolTip("Show hotkeys (h)")
	a.audioControls.setupTooltips()
}

// setupKeyboardShortcuts binds the keys of the terminal session to the
// window. Card keys do nothing while the overview is shown.
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(a.handleRune)
	a.window.Canvas().SetOnTypedKey(a.handleKey)
}

func (a *Application) handleRune(r rune) {
	switch r {
	case '1', '2', '3', '4':
		a.selectCategory(categories[r-'1'])
		return
	case 'y', 'Y':
		a.pinyinCheck.SetChecked(!a.prefs.ShowPinyin)
		return
	case 'o', 'O':
		a.overviewCheck.SetChecked(!a.prefs.OverviewMode)
		return
	case 's', 'S':
		a.onShuffle()
		return
	case 'h', 'H', '?':
		a.onShowHotkeys()
		return
	case 'q', 'Q':
		a.window.Close()
		return
	}

	if a.prefs.OverviewMode {
		return
	}

	switch r {
	case 'n', 'N':
		a.onNext()
	case 'p', 'P':
		a.onPrevious()
	case 'f', 'F':
		a.onFlip()
	case 'a', 'A':
		a.audioControls.PlaySound()
	case 'w', 'W':
		a.audioControls.PlayWord()
	case 'e', 'E':
		a.audioControls.PlaySentence()
	}
}

func (a *Application) handleKey(ev *fyne.KeyEvent) {
	if a.prefs.OverviewMode {
		return
	}

	switch ev.Name {
	case fyne.KeyLeft:
		a.onPrevious()
	case fyne.KeyRight:
		a.onNext()
	case fyne.KeySpace:
		a.onFlip()
	case fyne.KeyReturn, fyne.KeyEnter:
		// Enter plays what the visible side shows
		if a.state.Flipped() {
			a.audioControls.PlayWord()
		} else {
			a.audioControls.PlaySound()
		}
	}
}

// onShowHotkeys shows the keyboard shortcuts
func (a *Application) onShowHotkeys() {
	hotkeys := `## Navigation
**←** / **p** Previous card
**→** / **n** Next card
**Space** / **f** Flip the card

## Audio
**Enter** Play the visible side
**a** Play the sound
**w** Play the example word
**e** Play the example sentence

## Deck
**s** Shuffle
**1-4** All, consonants, vowels, tones
**y** Toggle pinyin
**o** Toggle the overview

## Help
**h** Show hotkeys
**q** Quit application`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(420, 420))

	dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window).Show()
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

// savePrefs writes the preferences, reporting failures in the status bar
func (a *Application) savePrefs() {
	if err := settings.Save(a.store, a.prefs); err != nil {
		msg := fmt.Sprintf("Warning: Could not save settings: %v", err)
		fmt.Fprintln(a.out, msg)
		a.updateStatus(msg)
	}
}

package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/taxonomy"
)

// refresh shows the overview grid or the current card, whichever the
// preferences ask for, and updates the navigation buttons
func (a *Application) refresh() {
	v := a.state.View()

	if a.prefs.OverviewMode {
		a.cardPane.Hide()
		a.refreshOverview()
		a.overviewPane.Show()
	} else {
		a.overviewPane.Hide()
		if v.HasCard {
			a.cardView.SetCard(v.Card, v.Flipped, a.prefs.ShowPinyin)
		} else {
			a.cardView.SetEmpty(fmt.Sprintf("No cards in %s", v.Category.Label()))
		}
		a.audioControls.SetCard(a.resolver, v.Card, v.HasCard)
		a.cardPane.Show()
	}

	if v.HasCard {
		a.positionLabel.SetText(fmt.Sprintf("%d / %d", v.Index+1, v.Total))
	} else {
		a.positionLabel.SetText("0 / 0")
	}
	a.updateNavigation()
}

// updateNavigation updates the navigation button states
func (a *Application) updateNavigation() {
	v := a.state.View()
	cardMode := !a.prefs.OverviewMode && v.HasCard

	enable(a.prevBtn, cardMode && v.Index > 0)
	enable(a.nextBtn, cardMode && v.Index < v.Total-1)
	enable(a.flipBtn, cardMode)
}

// onPrevious shows the previous card
func (a *Application) onPrevious() {
	a.state.Previous()
	a.refresh()
}

// onNext shows the next card
func (a *Application) onNext() {
	a.state.Next()
	a.refresh()
}

// onFlip turns the current card over
func (a *Application) onFlip() {
	if a.prefs.OverviewMode {
		return
	}
	a.state.Flip()
	a.refresh()
}

// onShuffle shuffles the working list and starts over
func (a *Application) onShuffle() {
	a.state.Shuffle()
	a.refresh()
	a.updateStatus(fmt.Sprintf("Shuffled %d cards", a.state.Len()))
}

// jumpTo leaves the overview and shows card i
func (a *Application) jumpTo(i int) {
	if err := a.state.Jump(i); err != nil {
		a.updateStatus(err.Error())
		return
	}
	if a.prefs.OverviewMode {
		a.overviewCheck.SetChecked(false)
		return
	}
	a.refresh()
}

// selectCategory filters the deck and syncs the category selector
func (a *Application) selectCategory(c cards.Category) {
	a.categorySelect.Selected = c.Label()
	a.categorySelect.Refresh()
	a.applyFilter(c)
}

func (a *Application) onCategorySelected(label string) {
	for _, c := range categories {
		if c.Label() == label {
			a.applyFilter(c)
			return
		}
	}
}

func (a *Application) applyFilter(c cards.Category) {
	if err := a.state.Filter(c); err != nil {
		a.updateStatus(err.Error())
		return
	}
	a.refresh()
	a.updateStatus(fmt.Sprintf("%s: %d cards", c.Label(), a.state.Len()))
}

func (a *Application) onShowPinyin(on bool) {
	if on == a.prefs.ShowPinyin {
		return
	}
	a.prefs.ShowPinyin = on
	a.savePrefs()
	a.refresh()
}

func (a *Application) onOverviewMode(on bool) {
	if on == a.prefs.OverviewMode {
		return
	}
	a.prefs.OverviewMode = on
	a.savePrefs()
	a.refresh()
}

func (a *Application) playIndividualWord(w taxonomy.SubWord) {
	a.audioControls.Play(a.resolver.IndividualWord(w.Characters, w.Pinyin))
}

// refreshOverview rebuilds the grid of mini cards
func (a *Application) refreshOverview() {
	list := a.state.Cards()

	a.overviewTitle.SetText(fmt.Sprintf("Vista General - %s", a.state.Category().Label()))
	a.overviewCount.SetText(fmt.Sprintf("%d elementos", len(list)))

	a.overviewGrid.Objects = nil
	for i, c := range list {
		a.overviewGrid.Add(a.newMiniCard(i, c))
	}
	a.overviewGrid.Refresh()
}

// newMiniCard creates the overview tile of card c at index i
func (a *Application) newMiniCard(i int, c cards.Card) fyne.CanvasObject {
	symbol := canvas.NewText(c.Zhuyin, theme.Color(theme.ColorNamePrimary))
	symbol.TextSize = 40
	symbol.Alignment = fyne.TextAlignCenter

	face := container.NewVBox(symbol)
	if a.prefs.ShowPinyin {
		pinyin := widget.NewLabel(c.Pinyin)
		pinyin.Alignment = fyne.TextAlignCenter
		face.Add(pinyin)
	}
	if c.IsTone() && c.Description != "" {
		desc := widget.NewLabel(c.Description)
		desc.Alignment = fyne.TextAlignCenter
		desc.Wrapping = fyne.TextWrapWord
		face.Add(desc)
	}

	play := widget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() {
		if path, ok := a.resolver.Pronunciation(c); ok {
			a.audioControls.Play(path)
		}
	})
	expand := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() {
		a.showExpanded(c)
	})
	open := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		a.jumpTo(i)
	})

	return widget.NewCard("", "", container.NewBorder(
		nil,
		container.NewHBox(play, layout.NewSpacer(), expand, open),
		nil, nil,
		face,
	))
}

// showExpanded shows both sides of c in a dialog
func (a *Application) showExpanded(c cards.Card) {
	view := NewCardView()
	view.OnWordTapped = a.playIndividualWord
	view.SetCard(c, true, true)

	word := widget.NewButtonWithIcon("Palabra", theme.MediaPlayIcon(), func() {
		if path, ok := a.resolver.Word(c); ok {
			a.audioControls.Play(path)
		}
	})
	if c.ExampleWord == nil {
		word.Disable()
	}

	content := container.NewBorder(nil, word, nil, nil, view)
	d := dialog.NewCustom(c.Zhuyin, "Close", content, a.window)
	d.Resize(fyne.NewSize(520, 520))
	d.Show()
}

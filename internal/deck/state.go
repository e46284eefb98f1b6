package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/taxonomy"
)

var (
	// ErrUnknownCategory is returned by Filter for values outside all,
	// consonants, vowels and tones
	ErrUnknownCategory = errors.New("unknown category")

	// ErrIndexOutOfRange is returned by Jump
	ErrIndexOutOfRange = errors.New("card index out of range")
)

// Rand is the random source used by Shuffle
type Rand interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

// State owns the working card list, the current position and the flip
// state. The zero value is not usable; create one with New.
type State struct {
	raw      *taxonomy.Taxonomy
	cards    []cards.Card
	index    int
	flipped  bool
	category cards.Category
	rng      Rand
}

// View is a read-only snapshot of the state for rendering
type View struct {
	Card     cards.Card
	HasCard  bool
	Index    int
	Total    int
	Flipped  bool
	Category cards.Category
}

// New creates a state showing every card of the taxonomy
func New(raw *taxonomy.Taxonomy) *State {
	s := &State{
		raw:      raw,
		category: cards.All,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.cards = cards.Build(raw)
	return s
}

// WithRand replaces the random source used by Shuffle
func (s *State) WithRand(rng Rand) *State {
	s.rng = rng
	return s
}

// Filter rebuilds the card list from the taxonomy and keeps only the given
// category. The position resets to the first card.
func (s *State) Filter(category cards.Category) error {
	switch category {
	case cards.All, cards.Consonants, cards.Vowels, cards.Tones:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	s.cards = cards.Filter(cards.Build(s.raw), category)
	s.category = category
	s.reset()
	return nil
}

// Shuffle permutes the current card list in place with Fisher-Yates and
// resets the position to the first card
func (s *State) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
	s.reset()
}

// Next moves to the following card. It does nothing on the last card.
func (s *State) Next() {
	if s.index < len(s.cards)-1 {
		s.index++
		s.flipped = false
	}
}

// Previous moves to the preceding card. It does nothing on the first card.
func (s *State) Previous() {
	if s.index > 0 {
		s.index--
		s.flipped = false
	}
}

// Jump moves directly to index i
func (s *State) Jump(i int) error {
	if i < 0 || i >= len(s.cards) {
		return fmt.Errorf("%w: %d (have %d cards)", ErrIndexOutOfRange, i, len(s.cards))
	}
	s.index = i
	s.flipped = false
	return nil
}

// Flip toggles between the front and the back of the current card
func (s *State) Flip() {
	if len(s.cards) > 0 {
		s.flipped = !s.flipped
	}
}

// Current returns the card at the current position
func (s *State) Current() (cards.Card, bool) {
	if len(s.cards) == 0 {
		return cards.Card{}, false
	}
	return s.cards[s.index], true
}

// Index returns the current position
func (s *State) Index() int { return s.index }

// Len returns the number of cards in the working list
func (s *State) Len() int { return len(s.cards) }

// Flipped reports whether the back of the current card is shown
func (s *State) Flipped() bool { return s.flipped }

// Category returns the active filter
func (s *State) Category() cards.Category { return s.category }

// Cards returns a copy of the working list in its current order
func (s *State) Cards() []cards.Card {
	out := make([]cards.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// View returns a snapshot for the presentation layer
func (s *State) View() View {
	c, ok := s.Current()
	return View{
		Card:     c,
		HasCard:  ok,
		Index:    s.index,
		Total:    len(s.cards),
		Flipped:  s.flipped,
		Category: s.category,
	}
}

func (s *State) reset() {
	s.index = 0
	s.flipped = false
}

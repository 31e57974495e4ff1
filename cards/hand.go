package cards

import (
	"errors"
	"math/rand"
	"strings"
)

var ErrEmptySource = errors.New("no cards left to draw")

// Hand is an unordered collection of cards. A shoe is a hand loaded with
// one or more full decks; dealing draws a random card out of it, so there is
// no separate shuffle step.
type Hand struct {
	cards []Card
}

// NewShoe returns a hand holding decks full decks. A count below one gives
// an empty shoe.
func NewShoe(decks int) *Hand {
	if decks < 0 {
		decks = 0
	}
	h := &Hand{cards: make([]Card, 0, 52*decks)}
	for i := 0; i < decks; i++ {
		h.AddFullDeck()
	}
	return h
}

func (h *Hand) Append(c Card) {
	h.cards = append(h.cards, c)
}

func (h *Hand) AddFullDeck() {
	h.cards = append(h.cards, FullDeck()...)
}

func (h *Hand) Len() int {
	return len(h.cards)
}

func (h *Hand) Cards() []Card {
	ret := make([]Card, len(h.cards))
	copy(ret, h.cards)
	return ret
}

func (h *Hand) Reset() {
	h.cards = h.cards[:0]
}

func (h *Hand) Score() int {
	var total int
	for _, c := range h.cards {
		total += c.Score()
	}
	return total
}

// Draw removes a uniformly chosen card and returns it.
func (h *Hand) Draw(rng *rand.Rand) (Card, error) {
	n := len(h.cards)
	if n == 0 {
		return Card{}, ErrEmptySource
	}
	i := rng.Intn(n)
	c := h.cards[i]
	h.cards[i] = h.cards[n-1]
	h.cards = h.cards[:n-1]
	return c, nil
}

// DealTo draws one card from h into dst.
func (h *Hand) DealTo(dst *Hand, rng *rand.Rand) error {
	c, err := h.Draw(rng)
	if err != nil {
		return err
	}
	dst.Append(c)
	return nil
}

func (h *Hand) String() string {
	if len(h.cards) == 0 {
		return "nil"
	}
	w := make([]string, len(h.cards))
	for i, c := range h.cards {
		w[i] = c.String()
	}
	return strings.Join(w, ", ")
}

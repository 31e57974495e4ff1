package cards

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Ranks = "A23456789TJQK"
	Suits = "shcd"
)

var ErrInvalidCard = errors.New("invalid card")

// Card is a single playing card. Aces always score 1.
type Card struct {
	rank, suit byte
	score      int
}

func New(rank, suit byte) (Card, error) {
	if strings.IndexByte(Ranks, rank) < 0 || strings.IndexByte(Suits, suit) < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, []byte{rank, suit})
	}
	c := Card{rank: rank, suit: suit}
	switch {
	case rank == 'A':
		c.score = 1
	case rank >= '2' && rank <= '9':
		c.score = int(rank - '0')
	default:
		c.score = 10
	}
	return c, nil
}

// Parse reads a two character card such as "As" or "Td".
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	return New(s[0], s[1])
}

func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) Rank() byte { return c.rank }
func (c Card) Suit() byte { return c.suit }
func (c Card) Score() int { return c.score }

func (c Card) String() string {
	return string([]byte{c.rank, c.suit})
}

// FullDeck returns one of each rank and suit.
func FullDeck() []Card {
	deck := make([]Card, 0, len(Ranks)*len(Suits))
	for i := 0; i < len(Suits); i++ {
		for j := 0; j < len(Ranks); j++ {
			c, _ := New(Ranks[j], Suits[i])
			deck = append(deck, c)
		}
	}
	return deck
}

package table

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mtharp/twentyone/cards"
)

var ErrWrongState = errors.New("operation not valid in this state")

// Rules are the table settings shared by every round.
type Rules struct {
	Decks       int
	MinBet      float64
	InitialBank float64
}

var DefaultRules = Rules{
	Decks:       4,
	MinBet:      0,
	InitialBank: 1000,
}

// payout on a win, as a multiple of the bet
const winPayout = 1.5

type State int

const (
	Betting State = iota
	InitialDeal
	PlayerDecision
	DealerPlay
	Settlement
	RoundEnd
)

func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case InitialDeal:
		return "initial deal"
	case PlayerDecision:
		return "player decision"
	case DealerPlay:
		return "dealer play"
	case Settlement:
		return "settlement"
	case RoundEnd:
		return "round end"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Outcome int

const (
	Undecided Outcome = iota
	Win
	Push
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Push:
		return "push"
	case Loss:
		return "loss"
	}
	return "undecided"
}

// Round is one hand of blackjack between a player and the dealer.
type Round struct {
	Player *Player
	Dealer *Player
	Shoe   *cards.Hand
	Rules  Rules

	State   State
	Bet     float64
	Choice  Action
	Outcome Outcome
	// final scores, kept after the player's hand is cleared
	PlayerScore, DealerScore int
	Reward                   float64

	rng *rand.Rand
}

// NewRound prepares a round with a fresh shoe.
func NewRound(p *Player, rules Rules, rng *rand.Rand) *Round {
	p.Hand.Reset()
	return &Round{
		Player: p,
		Dealer: NewDealer(),
		Shoe:   cards.NewShoe(rules.Decks),
		Rules:  rules,
		rng:    rng,
	}
}

// PlayRound plays one complete round for p and returns the reward.
func PlayRound(p *Player, rules Rules, rng *rand.Rand) (float64, error) {
	return NewRound(p, rules, rng).Play()
}

// Play drives the round from betting to the end using the player's actor.
func (r *Round) Play() (float64, error) {
	if r.Player.Actor == nil {
		return 0, fmt.Errorf("player %s has no actor", r.Player)
	}
	bet, err := r.Player.Actor.DecideBet(r.Player.Bank)
	if err != nil {
		return 0, err
	}
	if err := r.PlaceBet(bet); err != nil {
		return 0, err
	}
	if err := r.Deal(); err != nil {
		return 0, err
	}
	for r.State == PlayerDecision {
		a, err := r.Player.Actor.DecideAction(r.Player.Hand.Score(), r.Player.Bank)
		if err != nil {
			return 0, err
		}
		switch a {
		case Hit:
			err = r.Hit()
		case Stay:
			err = r.Stay()
		case DoubleDown:
			err = r.DoubleDown()
		default:
			err = fmt.Errorf("%w: %v", ErrInvalidAction, a)
		}
		if err != nil {
			return 0, err
		}
	}
	return r.Finish()
}

func (r *Round) expect(s State) error {
	if r.State != s {
		return fmt.Errorf("%w: round is in %s, not %s", ErrWrongState, r.State, s)
	}
	return nil
}

// PlaceBet clamps the bet to the table minimum and the player's bank, then
// takes it out of the bank.
func (r *Round) PlaceBet(bet float64) error {
	if err := r.expect(Betting); err != nil {
		return err
	}
	if math.IsNaN(bet) || bet < r.Rules.MinBet {
		bet = r.Rules.MinBet
	}
	if bet > r.Player.Bank {
		bet = r.Player.Bank
	}
	r.Bet = bet
	r.Player.Bank -= bet
	r.State = InitialDeal
	return nil
}

// Deal gives two cards each, dealer first.
func (r *Round) Deal() error {
	if err := r.expect(InitialDeal); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := r.Shoe.DealTo(&r.Dealer.Hand, r.rng); err != nil {
			return err
		}
		if err := r.Shoe.DealTo(&r.Player.Hand, r.rng); err != nil {
			return err
		}
	}
	r.State = PlayerDecision
	return nil
}

func (r *Round) Hit() error {
	if err := r.expect(PlayerDecision); err != nil {
		return err
	}
	r.Choice = Hit
	if err := r.Shoe.DealTo(&r.Player.Hand, r.rng); err != nil {
		return err
	}
	switch r.Player.Status() {
	case Alive:
		return nil
	case Blackjack:
		r.settle(Win)
	default:
		if r.Player.Hand.Score() == r.Dealer.Hand.Score() {
			r.settle(Push)
		} else {
			r.settle(Loss)
		}
	}
	return nil
}

func (r *Round) Stay() error {
	if err := r.expect(PlayerDecision); err != nil {
		return err
	}
	r.Choice = Stay
	return r.showdown()
}

// DoubleDown doubles the bet, or goes all in when the bank can't cover it,
// and draws exactly one more card.
func (r *Round) DoubleDown() error {
	if err := r.expect(PlayerDecision); err != nil {
		return err
	}
	r.Choice = DoubleDown
	if r.Player.Bank < r.Bet {
		r.Bet += r.Player.Bank
		r.Player.Bank = 0
	} else {
		r.Player.Bank -= r.Bet
		r.Bet *= 2
	}
	if err := r.Shoe.DealTo(&r.Player.Hand, r.rng); err != nil {
		return err
	}
	if r.Player.Hand.Score() > 21 {
		r.settle(Loss)
		return nil
	}
	return r.showdown()
}

// showdown lets the dealer draw out and compares scores.
func (r *Round) showdown() error {
	r.State = DealerPlay
	for r.Dealer.Status() == Alive {
		if err := r.Shoe.DealTo(&r.Dealer.Hand, r.rng); err != nil {
			return err
		}
	}
	dealer, player := r.Dealer.Hand.Score(), r.Player.Hand.Score()
	switch {
	case r.Dealer.Status() == Bust || dealer < player:
		r.settle(Win)
	case dealer == player:
		r.settle(Push)
	default:
		r.settle(Loss)
	}
	return nil
}

func (r *Round) settle(o Outcome) {
	r.State = Settlement
	r.Outcome = o
	switch o {
	case Win:
		r.Player.Bank += winPayout * r.Bet
		r.Player.Wins++
	case Push:
		r.Player.Bank += r.Bet
	}
}

// Finish scores the round, clears the player's hand and counts the game.
func (r *Round) Finish() (float64, error) {
	if err := r.expect(Settlement); err != nil {
		return 0, err
	}
	r.PlayerScore = r.Player.Hand.Score()
	r.DealerScore = r.Dealer.Hand.Score()
	r.Reward = Reward(r.PlayerScore, r.DealerScore, r.Choice)
	r.Player.Hand.Reset()
	r.Player.Games++
	r.State = RoundEnd
	return r.Reward, nil
}

// Summary describes a finished round in one line.
func (r *Round) Summary() string {
	return fmt.Sprintf("%s %s: %d against the dealer's %d, bet $%.2f, bank $%.2f",
		r.Player, r.Outcome, r.PlayerScore, r.DealerScore, r.Bet, r.Player.Bank)
}

package table

import (
	"github.com/mtharp/twentyone/cards"
)

type Role int

const (
	RoleActor Role = iota
	RoleDealer
)

type Status int

const (
	Alive Status = iota
	Blackjack
	Bust
	Stop
)

func (s Status) String() string {
	switch s {
	case Alive:
		return "ALIVE"
	case Blackjack:
		return "BLACKJACK"
	case Bust:
		return "BUST"
	case Stop:
		return "STOP_DEALER"
	}
	return "UNKNOWN"
}

// Player is either the actor (human or network driven) or the dealer.
type Player struct {
	Name        string
	Role        Role
	Hand        cards.Hand
	Bank        float64
	InitialBank float64
	Wins, Games int
	Actor       Actor
}

func NewPlayer(name string, bank float64, actor Actor) *Player {
	return &Player{
		Name:        name,
		Role:        RoleActor,
		Bank:        bank,
		InitialBank: bank,
		Actor:       actor,
	}
}

func NewDealer() *Player {
	return &Player{Name: "Dealer", Role: RoleDealer}
}

func (p *Player) String() string {
	return p.Name
}

// Status reports where the player's hand stands. The dealer additionally
// stops drawing once at 17 or more.
func (p *Player) Status() Status {
	score := p.Hand.Score()
	switch {
	case score == 21:
		return Blackjack
	case score > 21:
		return Bust
	case p.Role == RoleDealer && score >= 17:
		return Stop
	}
	return Alive
}

func (p *Player) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games)
}

// Reset restores the starting bank and clears the counters.
func (p *Player) Reset() {
	p.Bank = p.InitialBank
	p.Wins = 0
	p.Games = 0
	p.Hand.Reset()
}

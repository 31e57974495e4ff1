package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidBet    = errors.New("invalid bet")
)

type Action byte

const (
	Hit        Action = 'h'
	Stay       Action = 's'
	DoubleDown Action = 'd'
)

func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 {
		switch a := Action(s[0]); a {
		case Hit, Stay, DoubleDown:
			return a, nil
		}
	}
	switch s {
	case "hit":
		return Hit, nil
	case "stay", "stand":
		return Stay, nil
	case "double", "double down":
		return DoubleDown, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stay:
		return "stay"
	case DoubleDown:
		return "double down"
	}
	return fmt.Sprintf("action(%d)", byte(a))
}

// Actor makes the player's decisions during a round.
type Actor interface {
	DecideBet(bank float64) (float64, error)
	DecideAction(score int, bank float64) (Action, error)
}

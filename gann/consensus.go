package gann

import (
	"errors"
	"sort"

	"github.com/mtharp/twentyone/table"
	deep "github.com/patrikeh/go-deep"
)

// Consensus plays as a panel of networks: the median bet and the majority
// action win.
type Consensus []Policy

// NewConsensus builds a panel from nets, dropping the last one if needed so
// that the panel has odd size.
func NewConsensus(nets []*deep.Neural) (Consensus, error) {
	if len(nets)%2 == 0 {
		if len(nets) == 0 {
			return nil, errors.New("consensus needs at least one network")
		}
		nets = nets[:len(nets)-1]
	}
	c := make(Consensus, len(nets))
	for i, nn := range nets {
		c[i] = Policy{NN: nn}
	}
	return c, nil
}

type betList []float64

func (l betList) Less(i, j int) bool {
	return l[i] < l[j]
}

func (l betList) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

func (l betList) Len() int {
	return len(l)
}

func (l betList) median() float64 {
	sort.Sort(l)
	return l[len(l)/2]
}

func (c Consensus) DecideBet(bank float64) (float64, error) {
	bets := make(betList, len(c))
	for i, p := range c {
		bet, err := p.DecideBet(bank)
		if err != nil {
			return 0, err
		}
		bets[i] = bet
	}
	return bets.median(), nil
}

// DecideAction counts one vote per member. Tied counts go to the action
// listed first among hit, stay, double down.
func (c Consensus) DecideAction(score int, bank float64) (table.Action, error) {
	votes := make(map[table.Action]int, len(vectorActions))
	for _, p := range c {
		a, err := p.DecideAction(score, bank)
		if err != nil {
			return 0, err
		}
		votes[a]++
	}
	best := vectorActions[0]
	for _, a := range vectorActions[1:] {
		if votes[a] > votes[best] {
			best = a
		}
	}
	return best, nil
}

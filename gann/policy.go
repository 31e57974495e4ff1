package gann

import (
	"fmt"

	"github.com/mtharp/twentyone/table"
	deep "github.com/patrikeh/go-deep"
)

var vectorActions = [...]table.Action{table.Hit, table.Stay, table.DoubleDown}

// Policy lets a network play. The bet comes from the fourth output given only
// the bank; the action is the strongest of the first three outputs given the
// hand score and the bank.
type Policy struct {
	NN *deep.Neural
}

func (p Policy) predict(score, bank float64) ([]float64, error) {
	o := p.NN.Predict([]float64{score, bank})
	if len(o) != outputSize {
		return nil, fmt.Errorf("network has %d outputs, need %d", len(o), outputSize)
	}
	return o, nil
}

func (p Policy) DecideBet(bank float64) (float64, error) {
	o, err := p.predict(0, bank/bankScale)
	if err != nil {
		return 0, err
	}
	return o[betIndex] * bankScale, nil
}

func (p Policy) DecideAction(score int, bank float64) (table.Action, error) {
	o, err := p.predict(float64(score)/scoreScale, bank/bankScale)
	if err != nil {
		return 0, err
	}
	return actionFromVector(o), nil
}

// actionFromVector picks the highest scoring action; the earliest wins a tie.
func actionFromVector(o []float64) table.Action {
	best := 0
	for i := 1; i < len(vectorActions); i++ {
		if o[i] > o[best] {
			best = i
		}
	}
	return vectorActions[best]
}

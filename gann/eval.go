package gann

import (
	"fmt"
	"math/rand"

	"github.com/mtharp/twentyone/table"
	deep "github.com/patrikeh/go-deep"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a network's play over several repetitions.
type Stats struct {
	WinRate    float64 `json:"win_rate"`
	AveBank    float64 `json:"ave_bank"`
	AveReward  float64 `json:"ave_reward"`
	BankStdDev float64 `json:"bank_stddev"`
}

// Cost is the fitness used to rank networks. Higher is better.
func (s Stats) Cost() float64 {
	return s.WinRate + s.AveBank/bankScale + rewardWeight*s.AveReward
}

// Evaluate plays reps repetitions of GamesPerRep rounds with nn at the table.
// Every repetition starts over with the initial bank.
func Evaluate(nn *deep.Neural, rules table.Rules, reps int, rng *rand.Rand) (Stats, error) {
	if reps <= 0 {
		return Stats{}, fmt.Errorf("invalid repetition count %d", reps)
	}
	p := table.NewPlayer("AI", rules.InitialBank, Policy{nn})
	winRates := make([]float64, reps)
	banks := make([]float64, reps)
	var reward float64
	for i := 0; i < reps; i++ {
		p.Reset()
		for g := 0; g < GamesPerRep; g++ {
			r, err := table.PlayRound(p, rules, rng)
			if err != nil {
				return Stats{}, err
			}
			reward += r
		}
		winRates[i] = p.WinRate()
		banks[i] = p.Bank
	}
	s := Stats{
		WinRate:   stat.Mean(winRates, nil),
		AveBank:   stat.Mean(banks, nil),
		AveReward: reward / float64(reps*GamesPerRep),
	}
	if reps > 1 {
		s.BankStdDev = stat.StdDev(banks, nil)
	}
	return s, nil
}

package gann

import (
	deep "github.com/patrikeh/go-deep"
)

// vectors
const (
	inputSize  = 2
	outputSize = 4
	betIndex   = 3
	bankScale  = 1000.0
	scoreScale = 21.0
)

// genetic algorithm
const (
	DefaultPopulation   = 20
	DefaultHidden       = 20
	DefaultMutationRate = 0.05
	DefaultEpochs       = 200
	DefaultEvalRounds   = 10
	DefaultReportEvery  = 10

	// rounds played per evaluation repetition
	GamesPerRep = 5
	// mutation shrinks to nothing as the win rate approaches this
	targetWinRate = 0.70
	rewardWeight  = 1.1
	nanCost       = -1e6
)

func netConfig(hidden int) *deep.Config {
	return &deep.Config{
		Inputs:     inputSize,
		Layout:     []int{hidden, outputSize},
		Activation: deep.ActivationSigmoid,
		Mode:       deep.ModeBinary,
		Weight:     deep.NewNormal(1.0, 0.0),
	}
}

package gann

import (
	"math/rand"
	"testing"

	"github.com/mtharp/twentyone/table"
	deep "github.com/patrikeh/go-deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionFromVector(t *testing.T) {
	assert.Equal(t, table.Hit, actionFromVector([]float64{0.9, 0.1, 0.2, 0.5}))
	assert.Equal(t, table.Stay, actionFromVector([]float64{0.1, 0.9, 0.2, 0.5}))
	assert.Equal(t, table.DoubleDown, actionFromVector([]float64{0.1, 0.2, 0.9, 0.5}))
	// the bet output never counts as an action
	assert.Equal(t, table.Stay, actionFromVector([]float64{0.1, 0.2, 0.1, 0.99}))
	assert.Equal(t, table.Hit, actionFromVector([]float64{0.5, 0.5, 0.5, 0.5}))
}

func TestPolicy(t *testing.T) {
	nn := NewNetwork(DefaultHidden, rand.New(rand.NewSource(5)))
	p := Policy{nn}
	bet, err := p.DecideBet(1000)
	require.NoError(t, err)
	// sigmoid output scaled to the bank unit
	assert.Greater(t, bet, 0.0)
	assert.Less(t, bet, bankScale)

	o := nn.Predict([]float64{0, 1})
	assert.InDelta(t, o[betIndex]*bankScale, bet, 1e-9)

	a, err := p.DecideAction(15, 900)
	require.NoError(t, err)
	assert.Equal(t, actionFromVector(nn.Predict([]float64{15.0 / 21.0, 0.9})), a)
}

func TestEvaluate(t *testing.T) {
	nn := NewNetwork(DefaultHidden, rand.New(rand.NewSource(6)))
	rules := table.DefaultRules
	st, err := Evaluate(nn, rules, 10, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st.WinRate, 0.0)
	assert.LessOrEqual(t, st.WinRate, 1.0)
	assert.GreaterOrEqual(t, st.AveBank, 0.0)
	assert.GreaterOrEqual(t, st.AveReward, 0.0)
	assert.LessOrEqual(t, st.AveReward, 1.0)
	assert.GreaterOrEqual(t, st.BankStdDev, 0.0)
	assert.InDelta(t, st.WinRate+st.AveBank/1000+1.1*st.AveReward, st.Cost(), 1e-12)

	again, err := Evaluate(nn, rules, 10, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, st, again, "same network and seed give the same result")

	_, err = Evaluate(nn, rules, 0, rand.New(rand.NewSource(7)))
	assert.Error(t, err)
}

func TestTrainEndToEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	pop := NewPopulation(4, 6, rng)
	tr := NewTrainer(table.DefaultRules, rng)
	tr.EvalRounds = 2
	var epochs int
	tr.Report = func(es EpochStats, _ *deep.Neural) {
		assert.Equal(t, epochs, es.Epoch)
		epochs++
	}
	require.NoError(t, tr.Train(pop, 3, DefaultMutationRate))
	assert.Equal(t, 3, epochs)
	assert.Len(t, pop, 4)
	best, _, err := tr.Best(pop)
	require.NoError(t, err)
	assert.Contains(t, pop, best)
}

package gann

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/mtharp/twentyone/table"
	deep "github.com/patrikeh/go-deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsensus(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	_, err := NewConsensus(nil)
	assert.Error(t, err)

	c, err := NewConsensus(NewPopulation(4, 5, rng))
	require.NoError(t, err)
	assert.Len(t, c, 3)
}

func TestConsensusMedianBet(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	nets := NewPopulation(5, 5, rng)
	c, err := NewConsensus(nets)
	require.NoError(t, err)

	var bets []float64
	for _, nn := range nets {
		bet, err := Policy{nn}.DecideBet(800)
		require.NoError(t, err)
		bets = append(bets, bet)
	}
	sort.Float64s(bets)
	bet, err := c.DecideBet(800)
	require.NoError(t, err)
	assert.Equal(t, bets[2], bet)
}

func TestConsensusMajorityAction(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	nets := NewPopulation(3, 5, rng)
	c, err := NewConsensus(nets)
	require.NoError(t, err)
	for score := 2; score <= 20; score++ {
		votes := map[table.Action]int{}
		for _, nn := range nets {
			a, err := Policy{nn}.DecideAction(score, 1000)
			require.NoError(t, err)
			votes[a]++
		}
		a, err := c.DecideAction(score, 1000)
		require.NoError(t, err)
		for other, n := range votes {
			assert.GreaterOrEqual(t, votes[a], n, "score %d: %s beat %s", score, other, a)
		}
	}

	single, err := NewConsensus([]*deep.Neural{nets[0]})
	require.NoError(t, err)
	a, err := single.DecideAction(12, 1000)
	require.NoError(t, err)
	want, _ := Policy{nets[0]}.DecideAction(12, 1000)
	assert.Equal(t, want, a)
}

func TestConsensusPlays(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	c, err := NewConsensus(NewPopulation(3, 5, rng))
	require.NoError(t, err)
	p := table.NewPlayer("panel", 1000, c)
	for i := 0; i < 20; i++ {
		_, err := table.PlayRound(p, table.DefaultRules, rng)
		require.NoError(t, err)
	}
	assert.Equal(t, 20, p.Games)
	assert.GreaterOrEqual(t, p.Bank, 0.0)
}

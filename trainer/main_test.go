package main

import (
	"math/rand"
	"testing"

	"github.com/mtharp/twentyone/config"
	"github.com/mtharp/twentyone/gann"
	deep "github.com/patrikeh/go-deep"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	saved := gann.NewPopulation(2, 5, rng)

	pop := seedPopulation(saved, 4, 5, rng)
	require.Len(t, pop, 4)
	assert.Same(t, saved[0], pop[0])
	assert.Same(t, saved[1], pop[1])

	assert.Len(t, seedPopulation(saved, 1, 5, rng), 1)

	// saved nets of another shape are not mixed in
	pop = seedPopulation(saved, 3, 7, rng)
	require.Len(t, pop, 3)
	for _, nn := range pop {
		assert.Len(t, nn.Layers[0].Neurons, 7)
	}
}

func TestSeedPopulationMixedShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	good := gann.NewPopulation(2, 5, rng)
	odd := gann.NewNetwork(7, rng)
	saved := []*deep.Neural{good[0], odd, good[1]}

	pop := seedPopulation(saved, 4, 5, rng)
	require.Len(t, pop, 4)
	assert.Same(t, good[0], pop[0])
	assert.Same(t, good[1], pop[1])
	assert.NotContains(t, pop, odd)
	for _, nn := range pop {
		assert.Len(t, nn.Layers[0].Neurons, 5)
	}

	// the size limit counts kept networks only
	pop = seedPopulation(saved, 2, 5, rng)
	require.Len(t, pop, 2)
	assert.Same(t, good[1], pop[1])
}

func TestTrainSavesBest(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("nets.dir", dir)
	v.Set("train.population", 3)
	v.Set("train.hidden", 4)
	v.Set("train.epochs", 2)
	v.Set("train.eval_rounds", 2)
	v.Set("train.seed", 9)
	v.Set("train.verbose", false)
	require.NoError(t, train(v))

	nets, err := gann.NetsFromDir(dir, 1)
	require.NoError(t, err)
	assert.Len(t, nets, 1)
}

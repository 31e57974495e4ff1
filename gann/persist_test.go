package gann

import (
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadNets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nets")
	rng := rand.New(rand.NewSource(9))

	nets, err := NetsFromDir(dir, 5)
	require.NoError(t, err)
	assert.Empty(t, nets)

	for _, n := range []int{0, -1} {
		_, err = NetsFromDir(dir, n)
		assert.Error(t, err, "count %d", n)
	}

	low := NewNetwork(5, rng)
	high := NewNetwork(5, rng)
	mid := NewNetwork(5, rng)
	_, err = SaveNet(dir, low, 0.5)
	require.NoError(t, err)
	_, err = SaveNet(dir, high, 2.25)
	require.NoError(t, err)
	_, err = SaveNet(dir, mid, 1.5)
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	nets, err = NetsFromDir(dir, 2)
	require.NoError(t, err)
	require.Len(t, nets, 2)
	in := []float64{0.5, 0.9}
	assert.Equal(t, high.Predict(in), nets[0].Predict(in))
	assert.Equal(t, mid.Predict(in), nets[1].Predict(in))
	assert.Equal(t, flatWeights(high), flatWeights(nets[0]))

	// restored networks can still be mutated
	child := Mutate(nets[0], 0, rng)
	assert.Equal(t, flatWeights(high), flatWeights(child))

	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}}

package gann

import (
	"fmt"
	"math/rand"

	deep "github.com/patrikeh/go-deep"
	"gonum.org/v1/gonum/mat"
)

// NewNetwork builds a 2-input, 4-output network with one hidden layer whose
// weights come from rng.
func NewNetwork(hidden int, rng *rand.Rand) *deep.Neural {
	if hidden <= 0 {
		panic(fmt.Sprintf("invalid hidden layer size %d", hidden))
	}
	nn := deep.NewNeural(netConfig(hidden))
	for _, l := range nn.Layers {
		for _, n := range l.Neurons {
			for _, in := range n.In {
				in.Weight = rng.NormFloat64()
			}
		}
	}
	return nn
}

// configOf copies a network's config so a sibling can be built from it.
// Configs restored from disk carry no weight initializer.
func configOf(nn *deep.Neural) *deep.Config {
	cfg := *nn.Config
	if cfg.Weight == nil {
		cfg.Weight = deep.NewNormal(1.0, 0.0)
	}
	return &cfg
}

// Weights returns each layer's weights as a neurons x inputs matrix. The
// input layer has no weights so the first matrix belongs to the hidden layer.
func Weights(nn *deep.Neural) []*mat.Dense {
	ret := make([]*mat.Dense, len(nn.Layers))
	for i, l := range nn.Layers {
		m := mat.NewDense(len(l.Neurons), len(l.Neurons[0].In), nil)
		for j, n := range l.Neurons {
			for k, in := range n.In {
				m.Set(j, k, in.Weight)
			}
		}
		ret[i] = m
	}
	return ret
}

// SetWeights copies matrices produced by Weights back into nn.
func SetWeights(nn *deep.Neural, weights []*mat.Dense) {
	for i, l := range nn.Layers {
		for j, n := range l.Neurons {
			for k, in := range n.In {
				in.Weight = weights[i].At(j, k)
			}
		}
	}
}

package gann

import (
	"errors"
	"log"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"github.com/mtharp/twentyone/table"
	deep "github.com/patrikeh/go-deep"
	"gonum.org/v1/gonum/mat"
	"golang.org/x/sync/errgroup"
)

var errEmptyPopulation = errors.New("population is empty")

type evalFunc func(nn *deep.Neural, rng *rand.Rand) (Stats, error)

// EpochStats describes the parent chosen in one training epoch.
type EpochStats struct {
	Epoch        int     `json:"epoch"`
	WinRate      float64 `json:"win_rate"`
	AveBank      float64 `json:"ave_bank"`
	AveReward    float64 `json:"ave_reward"`
	Cost         float64 `json:"cost"`
	MutationRate float64 `json:"mutation_rate"`
}

type score struct {
	nn    *deep.Neural
	stats Stats
	score float64
}

type scoreList []score

func (l scoreList) Len() int {
	return len(l)
}

func (l scoreList) Less(i, j int) bool {
	// highest first
	return l[i].score > l[j].score
}

func (l scoreList) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// Trainer evolves a population by replacing it every epoch with mutated
// copies of its best member.
type Trainer struct {
	Rules       table.Rules
	EvalRounds  int
	Workers     int
	Verbose     bool
	ReportEvery int
	// Report, if set, is called once per epoch with the epoch's parent.
	Report func(EpochStats, *deep.Neural)

	rng  *rand.Rand
	eval evalFunc
}

func NewTrainer(rules table.Rules, rng *rand.Rand) *Trainer {
	t := &Trainer{
		Rules:       rules,
		EvalRounds:  DefaultEvalRounds,
		ReportEvery: DefaultReportEvery,
		rng:         rng,
	}
	t.eval = func(nn *deep.Neural, rng *rand.Rand) (Stats, error) {
		return Evaluate(nn, t.Rules, t.EvalRounds, rng)
	}
	return t
}

// NewPopulation returns size fresh networks.
func NewPopulation(size, hidden int, rng *rand.Rand) []*deep.Neural {
	pop := make([]*deep.Neural, size)
	for i := range pop {
		pop[i] = NewNetwork(hidden, rng)
	}
	return pop
}

func (t *Trainer) workers() int {
	if t.Workers > 0 {
		return t.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Best scores every member and returns the one with the highest cost. Members
// are evaluated concurrently, so they must be distinct networks. Each gets its
// own random stream, seeded in population order.
func (t *Trainer) Best(pop []*deep.Neural) (*deep.Neural, Stats, error) {
	if len(pop) == 0 {
		return nil, Stats{}, errEmptyPopulation
	}
	seeds := make([]int64, len(pop))
	for i := range seeds {
		seeds[i] = t.rng.Int63()
	}
	scores := make(scoreList, len(pop))
	var g errgroup.Group
	g.SetLimit(t.workers())
	for i, nn := range pop {
		i, nn := i, nn
		g.Go(func() error {
			st, err := t.eval(nn, rand.New(rand.NewSource(seeds[i])))
			if err != nil {
				return err
			}
			c := st.Cost()
			if math.IsNaN(c) {
				c = nanCost
			}
			scores[i] = score{nn, st, c}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}
	sort.Stable(scores)
	return scores[0].nn, scores[0].stats, nil
}

// Train runs a fixed number of epochs. Each epoch the best member is
// re-evaluated and every member of pop is replaced by an independent
// mutation of it.
func (t *Trainer) Train(pop []*deep.Neural, epochs int, mutationRate float64) error {
	every := t.ReportEvery
	if every <= 0 {
		every = DefaultReportEvery
	}
	for epoch := 0; epoch < epochs; epoch++ {
		best, _, err := t.Best(pop)
		if err != nil {
			return err
		}
		st, err := t.eval(best, rand.New(rand.NewSource(t.rng.Int63())))
		if err != nil {
			return err
		}
		rate := AdaptiveRate(mutationRate, st.WinRate)
		es := EpochStats{
			Epoch:        epoch,
			WinRate:      st.WinRate,
			AveBank:      st.AveBank,
			AveReward:    st.AveReward,
			Cost:         st.Cost(),
			MutationRate: rate,
		}
		if t.Verbose && epoch%every == 0 {
			log.Printf("epoch %d: win rate %.1f%% ave bank $%.2f ave reward %.3f mutation %.4f",
				epoch, 100*st.WinRate, st.AveBank, st.AveReward, rate)
		}
		if t.Report != nil {
			t.Report(es, best)
		}
		for i := range pop {
			pop[i] = Mutate(best, rate, t.rng)
		}
	}
	return nil
}

// AdaptiveRate scales the mutation rate down as the win rate nears 70%.
// Above that it goes negative, which mutates nothing.
func AdaptiveRate(rate, winRate float64) float64 {
	return rate * (targetWinRate - winRate) / targetWinRate
}

// Mutate returns a copy of parent where each weight, with probability rate,
// is moved by a uniform amount in [-1, 1].
func Mutate(parent *deep.Neural, rate float64, rng *rand.Rand) *deep.Neural {
	child := deep.NewNeural(configOf(parent))
	weights := Weights(parent)
	for _, w := range weights {
		r, c := w.Dims()
		w.Add(w, mutationMask(r, c, rate, rng))
	}
	SetWeights(child, weights)
	return child
}

func mutationMask(r, c int, rate float64, rng *rand.Rand) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if rng.Float64() < rate {
				m.Set(i, j, 2*rng.Float64()-1)
			}
		}
	}
	return m
}

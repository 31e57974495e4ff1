package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/mtharp/twentyone/config"
	"github.com/mtharp/twentyone/gann"
	"github.com/mtharp/twentyone/store"
	"github.com/mtharp/twentyone/watch"
	deep "github.com/patrikeh/go-deep"
	"github.com/spf13/viper"
)

func main() {
	v, err := config.Load()
	if err != nil {
		log.Fatalln("error:", err)
	}
	if err := train(v); err != nil {
		log.Fatalln("error:", err)
	}
}

func train(v *viper.Viper) error {
	ctx := context.Background()
	seed := v.GetInt64("train.seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	size := v.GetInt("train.population")
	hidden := v.GetInt("train.hidden")
	epochs := v.GetInt("train.epochs")
	rate := v.GetFloat64("train.mutation_rate")
	netsDir := v.GetString("nets.dir")

	var (
		db    *store.DB
		runID string
		err   error
	)
	if url := v.GetString("db.url"); url != "" {
		db, err = store.Connect(url, true)
		if err != nil {
			return err
		}
		defer db.Close()
		runID, err = db.StartRun(ctx, store.RunParams{
			Population:   size,
			Hidden:       hidden,
			Epochs:       epochs,
			MutationRate: rate,
			Seed:         seed,
		})
		if err != nil {
			return err
		}
		log.Printf("recording run %s", runID)
	}
	saved, err := gann.NetsFromDir(netsDir, size)
	if err != nil {
		return err
	}
	if db != nil && len(saved) < size {
		more, err := db.BestNets(ctx, size-len(saved))
		if err != nil {
			return err
		}
		saved = append(saved, more...)
	}
	pop := seedPopulation(saved, size, hidden, rng)

	var hub *watch.Hub
	if listen := v.GetString("watch.listen"); listen != "" {
		hub = watch.NewHub()
		go func() {
			if err := http.ListenAndServe(listen, hub.Router()); err != nil {
				log.Printf("error: watch server: %s", err)
			}
		}()
		log.Printf("watch feed on http://%s/ws", listen)
	}

	rules, err := config.Rules(v)
	if err != nil {
		return err
	}
	t := gann.NewTrainer(rules, rng)
	t.EvalRounds = v.GetInt("train.eval_rounds")
	t.Workers = v.GetInt("train.workers")
	t.Verbose = v.GetBool("train.verbose")
	t.ReportEvery = v.GetInt("train.report_every")
	var last gann.EpochStats
	t.Report = func(es gann.EpochStats, best *deep.Neural) {
		last = es
		if db != nil {
			db.RecordEpoch(runID, es)
		}
		if hub != nil {
			hub.Publish(es)
		}
	}
	log.Printf("training %d networks for %d epochs (seed %d)", size, epochs, seed)
	if err := t.Train(pop, epochs, rate); err != nil {
		return err
	}

	best, stats, err := t.Best(pop)
	if err != nil {
		return err
	}
	log.Printf("best: win rate %.3f, bank %.2f, reward %.3f, cost %.3f",
		stats.WinRate, stats.AveBank, stats.AveReward, stats.Cost())
	fn, err := gann.SaveNet(netsDir, best, stats.Cost())
	if err != nil {
		return err
	}
	log.Printf("saved %s", fn)
	if db != nil {
		if err := db.SaveNet(ctx, runID, last.Epoch, stats.Cost(), best); err != nil {
			return err
		}
	}
	return nil
}

// seedPopulation starts from saved networks with the configured hidden size
// and fills the rest randomly.
func seedPopulation(saved []*deep.Neural, size, hidden int, rng *rand.Rand) []*deep.Neural {
	pop := make([]*deep.Neural, 0, size)
	for i, nn := range saved {
		if len(pop) == size {
			break
		}
		if len(nn.Layers) == 0 || len(nn.Layers[0].Neurons) != hidden {
			log.Printf("warning: saved network %d has a different shape, ignoring it", i)
			continue
		}
		pop = append(pop, nn)
	}
	if len(pop) < size {
		pop = append(pop, gann.NewPopulation(size-len(pop), hidden, rng)...)
	}
	return pop
}

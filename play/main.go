package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/mtharp/twentyone/config"
	"github.com/mtharp/twentyone/gann"
	"github.com/mtharp/twentyone/table"
)

func main() {
	v, err := config.Load()
	if err != nil {
		log.Fatalln("error:", err)
	}
	nets, err := gann.NetsFromDir(v.GetString("nets.dir"), v.GetInt("play.consensus"))
	if err != nil {
		log.Fatalln("error:", err)
	}
	if len(nets) == 0 {
		log.Fatalln("error: no saved networks in", v.GetString("nets.dir"))
	}
	panel, err := gann.NewConsensus(nets)
	if err != nil {
		log.Fatalln("error:", err)
	}
	rules, err := config.Rules(v)
	if err != nil {
		log.Fatalln("error:", err)
	}
	rounds := v.GetInt("play.rounds")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ai := table.NewPlayer("AI", rules.InitialBank, panel)
	if err := session(os.Stdout, ai, rules, rounds, rng); err != nil {
		log.Fatalln("error:", err)
	}
	human := table.NewPlayer("You", rules.InitialBank, &table.Interactive{
		Name:     "You",
		Prompter: table.NewConsole(os.Stdin, os.Stdout),
	})
	if err := session(os.Stdout, human, rules, rounds, rng); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			fmt.Println()
			summarize(os.Stdout, human)
			return
		}
		log.Fatalln("error:", err)
	}
}

// session plays rounds for p, printing each result and a final summary.
func session(w io.Writer, p *table.Player, rules table.Rules, rounds int, rng *rand.Rand) error {
	for i := 0; i < rounds; i++ {
		r := table.NewRound(p, rules, rng)
		if _, err := r.Play(); err != nil {
			return err
		}
		fmt.Fprintf(w, "round %d: %s\n", i+1, r.Summary())
	}
	summarize(w, p)
	return nil
}

func summarize(w io.Writer, p *table.Player) {
	fmt.Fprintf(w, "%s won %d of %d (%.1f%%), bank $%.2f\n",
		p, p.Wins, p.Games, 100*p.WinRate(), p.Bank)
}

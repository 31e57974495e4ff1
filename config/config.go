// Package config loads settings shared by the blackjack binaries.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mtharp/twentyone/gann"
	"github.com/mtharp/twentyone/table"
	"github.com/spf13/viper"
)

// Load reads .env if present, then blackjack.{toml,yaml,json} from the
// working directory if present. BJ_* environment variables override both,
// e.g. BJ_TRAIN_EPOCHS for train.epochs.
func Load() (*viper.Viper, error) {
	_ = godotenv.Load()
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("blackjack")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}
	v.SetEnvPrefix("BJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("game.decks", table.DefaultRules.Decks)
	v.SetDefault("game.min_bet", table.DefaultRules.MinBet)
	v.SetDefault("game.initial_bank", table.DefaultRules.InitialBank)

	v.SetDefault("train.population", gann.DefaultPopulation)
	v.SetDefault("train.hidden", gann.DefaultHidden)
	v.SetDefault("train.epochs", gann.DefaultEpochs)
	v.SetDefault("train.mutation_rate", gann.DefaultMutationRate)
	v.SetDefault("train.eval_rounds", gann.DefaultEvalRounds)
	v.SetDefault("train.workers", 0)
	v.SetDefault("train.seed", 0)
	v.SetDefault("train.verbose", true)
	v.SetDefault("train.report_every", gann.DefaultReportEvery)

	v.SetDefault("nets.dir", "nets")
	v.SetDefault("db.url", "")
	v.SetDefault("watch.listen", "")
	v.SetDefault("play.rounds", 10)
	v.SetDefault("play.consensus", 1)

	v.SetDefault("irc.server", "irc.chat.twitch.tv:6697")
	v.SetDefault("irc.ssl", true)
	v.SetDefault("irc.nick", "twentyone")
	v.SetDefault("irc.channel", "")
	v.SetDefault("irc.token", "")
	v.SetDefault("irc.token_file", "")
	v.SetDefault("twitch.client_id", "")
	v.SetDefault("twitch.client_secret", "")
}

// Rules returns the table settings under game.*.
func Rules(v *viper.Viper) (table.Rules, error) {
	r := table.Rules{
		Decks:       v.GetInt("game.decks"),
		MinBet:      v.GetFloat64("game.min_bet"),
		InitialBank: v.GetFloat64("game.initial_bank"),
	}
	switch {
	case r.Decks < 1:
		return r, fmt.Errorf("game.decks must be at least 1, got %d", r.Decks)
	case r.MinBet < 0:
		return r, fmt.Errorf("game.min_bet must not be negative, got %v", r.MinBet)
	case r.InitialBank < 0:
		return r, fmt.Errorf("game.initial_bank must not be negative, got %v", r.InitialBank)
	}
	return r, nil
}

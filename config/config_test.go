package config

import (
	"os"
	"testing"

	"github.com/mtharp/twentyone/table"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	rules, err := Rules(v)
	require.NoError(t, err)
	assert.Equal(t, table.DefaultRules, rules)
	assert.Equal(t, 20, v.GetInt("train.population"))
	assert.Equal(t, 0.05, v.GetFloat64("train.mutation_rate"))
	assert.Equal(t, "nets", v.GetString("nets.dir"))
}

func TestEnvOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("BJ_GAME_DECKS", "6")
	t.Setenv("BJ_TRAIN_EPOCHS", "12")
	v, err := Load()
	require.NoError(t, err)
	rules, err := Rules(v)
	require.NoError(t, err)
	assert.Equal(t, 6, rules.Decks)
	assert.Equal(t, 12, v.GetInt("train.epochs"))
	assert.Equal(t, 1000.0, rules.InitialBank)
}

func TestInvalidRules(t *testing.T) {
	for key, val := range map[string]interface{}{
		"game.decks":        -1,
		"game.min_bet":      -5,
		"game.initial_bank": -1,
	} {
		v := viper.New()
		SetDefaults(v)
		v.Set(key, val)
		_, err := Rules(v)
		assert.Error(t, err, key)
	}
	v := viper.New()
	SetDefaults(v)
	v.Set("game.decks", 0)
	_, err := Rules(v)
	assert.ErrorContains(t, err, "game.decks")
}

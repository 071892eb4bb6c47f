package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := Load(v)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 6, cfg.Game.RoomCodeLength)
	assert.Equal(t, "text", cfg.Logging.Format)

	rules := cfg.Rules()
	assert.Equal(t, 3, rules.MinPlayers)
	assert.Equal(t, 3, rules.Rounds)
	assert.Equal(t, 30*time.Second, rules.PromptTimeout)
	assert.Equal(t, 20*time.Second, rules.ResultsDelay)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("env", "production")
	v.Set("rounds", 5)
	v.Set("prompt-timeout", "45s")

	cfg := Load(v)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 5, cfg.Rules().Rounds)
	assert.Equal(t, 45*time.Second, cfg.Rules().PromptTimeout)
}

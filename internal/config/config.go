// Package config holds the server's runtime configuration. Values come
// from command-line flags bound through viper, which also honors WYR_*
// environment variables (see cmd/server).
package config

import (
	"time"

	"github.com/spf13/viper"

	"wouldyourather/internal/game"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration.
type GameConfig struct {
	MinPlayers     int
	Rounds         int
	PromptTimeout  time.Duration
	ResultsDelay   time.Duration
	RoomCodeLength int
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// SetDefaults registers every configuration key with its default value.
func SetDefaults(v *viper.Viper) {
	rules := game.DefaultRules()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("min-players", rules.MinPlayers)
	v.SetDefault("rounds", rules.Rounds)
	v.SetDefault("prompt-timeout", rules.PromptTimeout)
	v.SetDefault("results-delay", rules.ResultsDelay)
	v.SetDefault("room-code-length", 6)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
}

// Load materializes a Config from the given viper instance.
func Load(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host: v.GetString("host"),
			Port: v.GetString("port"),
			Env:  v.GetString("env"),
		},
		Game: GameConfig{
			MinPlayers:     v.GetInt("min-players"),
			Rounds:         v.GetInt("rounds"),
			PromptTimeout:  v.GetDuration("prompt-timeout"),
			ResultsDelay:   v.GetDuration("results-delay"),
			RoomCodeLength: v.GetInt("room-code-length"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log-level"),
			Format: v.GetString("log-format"),
		},
	}
}

// Rules converts the game section into engine rules.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		MinPlayers:    c.Game.MinPlayers,
		Rounds:        c.Game.Rounds,
		PromptTimeout: c.Game.PromptTimeout,
		ResultsDelay:  c.Game.ResultsDelay,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the server address in host:port format.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

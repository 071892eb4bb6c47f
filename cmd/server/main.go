package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"wouldyourather/internal/app"
	"wouldyourather/internal/config"
	httpTransport "wouldyourather/internal/transport/http"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	// Optional .env for local development; missing files are fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("WYR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:           "wouldyourather",
		Short:         "Party game server: write scenarios about your friends, then guess their answers.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config.Load(v))
		},
	}

	fs := cmd.Flags()
	fs.String("host", "0.0.0.0", "address to bind to (env: WYR_HOST)")
	fs.String("port", "8080", "port to listen on (env: WYR_PORT)")
	fs.String("env", "development", "deployment environment (env: WYR_ENV)")
	fs.Int("min-players", 3, "minimum players to start a game (env: WYR_MIN_PLAYERS)")
	fs.Int("rounds", 3, "rounds per game (env: WYR_ROUNDS)")
	fs.Duration("prompt-timeout", 30*time.Second, "deadline for writing, answering and guessing (env: WYR_PROMPT_TIMEOUT)")
	fs.Duration("results-delay", 20*time.Second, "pause on the results screen (env: WYR_RESULTS_DELAY)")
	fs.Int("room-code-length", 6, "length of generated room codes (env: WYR_ROOM_CODE_LENGTH)")
	fs.String("log-level", "info", "log level: debug, info, warn, error (env: WYR_LOG_LEVEL)")
	fs.String("log-format", "text", "log format: text or json (env: WYR_LOG_FORMAT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
	})

	return cmd
}

func run(cfg *config.Config) error {
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	var logger *slog.Logger
	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}
	slog.SetDefault(logger)

	logger.Info("starting game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"rounds", cfg.Game.Rounds,
	)

	hub := app.NewHub(cfg.Rules(), cfg.Game.RoomCodeLength, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

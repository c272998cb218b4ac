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

	"github.com/spf13/cobra"

	"github.com/vmunix/movieapi/internal/api"
	"github.com/vmunix/movieapi/internal/config"
	"github.com/vmunix/movieapi/internal/server"
	"github.com/vmunix/movieapi/internal/store"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the movie API server",
		Long: `Loads the configuration, seeds the store from the seed file and serves
the movie API until interrupted.

Without --config the file is discovered from $MOVIEAPI_CONFIG, ./config.toml,
the user config directory and /etc/movieapi/config.toml, falling back to
built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, path)
		},
	}
	serveCmd.Flags().StringP("config", "c", "", "Path to config file")
	rootCmd.AddCommand(serveCmd)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg config.ServerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func runServe(ctx context.Context, configPath string) error {
	cfg, path, err := config.Resolve(configPath)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return fmt.Errorf("%w\nrun 'movieapi config test' for a full report", err)
		}
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg.Server)
	if path == "" {
		logger.Info("no config file found, using defaults")
	} else {
		logger.Info("loaded config", "path", path)
	}

	handler, st, err := setup(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runner := server.NewRunner(handler, runnerConfig(cfg), logger.With("component", "server"))
	return runner.Run(ctx)
}

func runnerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Addr:              cfg.Addr(),
		ShutdownTimeout:   cfg.Server.ShutdownTimeout.Duration,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration,
		WriteTimeout:      cfg.Server.WriteTimeout.Duration,
		IdleTimeout:       cfg.Server.IdleTimeout.Duration,
	}
}

// setup opens and seeds the store and builds the API handler.
// The caller owns the returned store.
func setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, store.Store, error) {
	st, err := store.Open(ctx, store.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	if cfg.Data.Seed != "" {
		movies, err := store.LoadSeedFile(cfg.Data.Seed)
		if err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		n, err := store.Seed(ctx, st, movies)
		if err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		logger.Info("seeded store", "path", cfg.Data.Seed, "inserted", n, "records", len(movies))
	}
	logger.Info("store ready", "driver", cfg.Store.Driver)

	srv := api.New(st, api.Config{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger.With("component", "api"))
	return srv.Handler(), st, nil
}

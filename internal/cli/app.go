package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dost-app/dost/internal/config"
	"github.com/dost-app/dost/internal/conversation"
	"github.com/dost-app/dost/internal/database"
	iredis "github.com/dost-app/dost/internal/redis"
)

// loadConfig reads configuration, installs the logger and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the conversation store selected by STORE_DRIVER and returns
// a readiness check for it. The sqlite store is migrated before use.
func openStore(ctx context.Context, cfg *config.Config) (conversation.Store, func(context.Context) error, error) {
	loc, err := time.LoadLocation(cfg.Chat.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("loading timezone: %w", err)
	}

	switch cfg.Store.Driver {
	case "redis":
		store, err := iredis.OpenStore(ctx, cfg.Redis, loc)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Healthy, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		health := func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
		return conversation.NewSQLiteStore(db, loc), health, nil
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	// stderr keeps command output such as `history --json` clean.
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

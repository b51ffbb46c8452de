package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/dost-app/dost/internal/config"
)

// OpenSQLite opens the embedded database file and verifies the connection.
func OpenSQLite(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// A single writer connection avoids SQLITE_BUSY between concurrent appends.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	slog.Info("opened SQLite database", "path", cfg.Path)
	return db, nil
}

func HealthCheck(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/logger"
)

// Driver names registered by the imported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Target describes one SQL database: the driver and a DSN for it.
type Target struct {
	Driver string
	DSN    string
	// MaxConnections caps the pool; zero keeps driver defaults.
	MaxConnections int
	// Label is a credential-free description used in logs.
	Label string
}

// TargetFor resolves the SQL target for the configured store backend.
func TargetFor(cfg *config.Config) (Target, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db := cfg.Database
		return Target{
			Driver: DriverPostgres,
			DSN: fmt.Sprintf(
				"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
				db.User, db.Password, db.Host, db.Port, db.Name, db.SSLMode,
			),
			MaxConnections: db.MaxConnections,
			Label:          fmt.Sprintf("%s:%s/%s", db.Host, db.Port, db.Name),
		}, nil
	case config.BackendSQLite:
		return SQLiteTarget(cfg.Store.SQLitePath), nil
	}
	return Target{}, fmt.Errorf("store backend %q is not SQL", cfg.Store.Backend)
}

// SQLiteTarget builds a target for a SQLite file. A single connection avoids
// SQLITE_BUSY between concurrent writers in the same process.
func SQLiteTarget(path string) Target {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return Target{Driver: DriverSQLite, DSN: dsn, MaxConnections: 1, Label: path}
}

// Connect opens the database, waits until it answers pings and configures the pool.
func Connect(ctx context.Context, t Target) (*sqlx.DB, error) {
	start := time.Now()
	db, err := sqlx.Open(t.Driver, t.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := waitForDB(waitCtx, db, 2*time.Second); err != nil {
		_ = db.Close()
		logger.Error(ctx, logger.CompDB, "db.connect",
			slog.String("status", "fail"),
			slog.String("driver", t.Driver),
			slog.String("target", t.Label),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if t.MaxConnections > 0 {
		db.SetMaxOpenConns(t.MaxConnections)
		db.SetMaxIdleConns(t.MaxConnections)
	}

	logger.Info(ctx, logger.CompDB, "db.connect",
		slog.String("status", "ok"),
		slog.String("driver", t.Driver),
		slog.String("target", t.Label),
		slog.Int("pool_open", t.MaxConnections),
		slog.Duration("duration", logger.Took(start)),
	)
	return db, nil
}

// waitForDB pings until the database is ready or ctx ends.
func waitForDB(ctx context.Context, db *sqlx.DB, every time.Duration) error {
	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout reached waiting for database: %w", err)
		case <-time.After(every):
		}
	}
}

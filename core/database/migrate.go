package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migdb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m3rciful/quizbot/core/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending up migrations to the target. It opens and
// closes its own connection.
func RunMigrations(ctx context.Context, t Target) error {
	db, err := Connect(ctx, t)
	if err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	files := listMigrationFiles()
	logger.Debug(ctx, logger.CompMigrate, "resolve",
		slog.Int("files_total", len(files)),
		slog.String("files_preview", strings.Join(files, ",")),
	)

	var drv migdb.Driver
	switch t.Driver {
	case DriverPostgres:
		drv, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case DriverSQLite:
		drv, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", t.Driver)
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = drv.Close()
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, t.Driver, drv)
	if err != nil {
		_ = drv.Close()
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	// Closing the migrate instance closes db as well.
	defer func() { _, _ = m.Close() }()

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := logger.Took(start)

	switch {
	case upErr == nil:
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Info(ctx, logger.CompMigrate, "summary",
			slog.String("status", "skip"),
			slog.Uint64("from_ver", uint64(fromVer)),
			slog.Uint64("to_ver", uint64(fromVer)),
			slog.Int("files", 0),
			slog.Duration("duration", took),
		)
		return nil
	default:
		logger.Error(ctx, logger.CompMigrate, "apply",
			slog.String("status", "fail"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	applied := selectApplied(files, uint64(fromVer), uint64(toVer))
	logger.Info(ctx, logger.CompMigrate, "summary",
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("files", len(applied)),
		slog.String("files_preview", strings.Join(applied, ",")),
		slog.Duration("duration", took),
	)
	return nil
}

func listMigrationFiles() []string {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	head, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(head, 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	var out []string
	if to <= from {
		return out
	}
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abdulachik/styleselector/internal/db/migrations"
	_ "modernc.org/sqlite"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// pragmas run on every new connection, in order. busy_timeout lets the server
// and a CLI command share one history file without SQLITE_BUSY on short writes.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// Store is the run history database.
type Store struct {
	*sql.DB
	*Queries
	logger *slog.Logger
}

// Migration is one schema file and whether it has been applied.
type Migration struct {
	Version   string
	Applied   bool
	AppliedAt string
}

// NewStore opens the history database at path, creating its directory.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(p, "PRAGMA "), err)
		}
	}

	return &Store{
		DB:      sqlDB,
		Queries: New(sqlDB),
		logger:  slog.Default().With("component", "history"),
	}, nil
}

// InTx runs fn inside a transaction, committing when it returns nil.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Migrate applies the pending history schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return s.MigrateFS(ctx, migrations.FS)
}

// MigrateFS applies every pending *.sql file in fsys in name order. Each file
// runs in its own transaction together with its schema_migrations row.
func (s *Store) MigrateFS(ctx context.Context, fsys fs.FS) error {
	status, err := s.migrationStatus(ctx, fsys)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range status {
		if m.Applied {
			continue
		}
		pending++

		content, err := fs.ReadFile(fsys, m.Version)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", m.Version, err)
		}
		err = s.InTx(ctx, func(q *Queries) error {
			if _, err := q.db.ExecContext(ctx, extractUpMigration(string(content))); err != nil {
				return fmt.Errorf("execute migration %s: %w", m.Version, err)
			}
			if _, err := q.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
				return fmt.Errorf("record migration %s: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.Info("migration applied", "version", m.Version)
	}

	s.logger.Debug("history schema up to date", "migrations", len(status), "applied_now", pending)
	return nil
}

// Migrations reports every bundled migration and whether it has been applied.
func (s *Store) Migrations(ctx context.Context) ([]Migration, error) {
	return s.migrationStatus(ctx, migrations.FS)
}

func (s *Store) migrationStatus(ctx context.Context, fsys fs.FS) ([]Migration, error) {
	if _, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}

	rows, err := s.QueryContext(ctx, "SELECT version, CAST(applied_at AS TEXT) FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var version, appliedAt string
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = appliedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migrations: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var status []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		appliedAt, ok := applied[e.Name()]
		status = append(status, Migration{Version: e.Name(), Applied: ok, AppliedAt: appliedAt})
	}
	sort.Slice(status, func(i, j int) bool { return status[i].Version < status[j].Version })
	return status, nil
}

// extractUpMigration returns the statements between the Up and Down markers.
// A file without markers is used whole.
func extractUpMigration(content string) string {
	if idx := strings.Index(content, downMarker); idx != -1 {
		content = content[:idx]
	}
	if idx := strings.Index(content, upMarker); idx != -1 {
		content = content[idx+len(upMarker):]
	}
	return strings.TrimSpace(content)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

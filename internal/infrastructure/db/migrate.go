package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration is a single versioned schema change
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// versionStore reads and applies schema versions for one backend
type versionStore interface {
	ensureVersionTable(ctx context.Context) error
	currentVersion(ctx context.Context) (int, error)
	apply(ctx context.Context, m Migration) error
}

// Runner applies embedded migrations in version order
type Runner struct {
	store versionStore
	fs    fs.FS
	log   zerolog.Logger
}

// NewSQLiteRunner creates a runner for a SQLite database
func NewSQLiteRunner(db *sql.DB, log zerolog.Logger) *Runner {
	sub, _ := fs.Sub(migrationsFS, "migrations/sqlite")
	return &Runner{store: &sqlVersionStore{db: db}, fs: sub, log: log}
}

// NewPostgresRunner creates a runner for a PostgreSQL pool
func NewPostgresRunner(pool *pgxpool.Pool, log zerolog.Logger) *Runner {
	sub, _ := fs.Sub(migrationsFS, "migrations/postgres")
	return &Runner{store: &pgxVersionStore{pool: pool}, fs: sub, log: log}
}

// ReadMigrations parses NNN_name.sql files sorted by version
func (r *Runner) ReadMigrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		parts := strings.SplitN(file.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", file.Name())
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil || version < 1 {
			return nil, fmt.Errorf("invalid version number in filename %s", file.Name())
		}

		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// Migrate applies pending migrations and returns how many ran
func (r *Runner) Migrate(ctx context.Context) (int, error) {
	if err := r.store.ensureVersionTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	current, err := r.store.currentVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	migrations, err := r.ReadMigrations()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := r.store.apply(ctx, m); err != nil {
			return applied, fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied++
		r.log.Info().Int("version", m.Version).Str("name", m.Name).Msg("migration applied")
	}

	if applied == 0 {
		r.log.Debug().Int("version", current).Msg("database schema is up to date")
	}

	return applied, nil
}

type sqlVersionStore struct {
	db *sql.DB
}

func (s *sqlVersionStore) ensureVersionTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

func (s *sqlVersionStore) currentVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func (s *sqlVersionStore) apply(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}

type pgxVersionStore struct {
	pool *pgxpool.Pool
}

func (s *pgxVersionStore) ensureVersionTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

func (s *pgxVersionStore) currentVersion(ctx context.Context) (int, error) {
	var version int
	err := s.pool.QueryRow(ctx, `SELECT version FROM schema_version`).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func (s *pgxVersionStore) apply(ctx context.Context, m Migration) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// No arguments: the simple protocol allows multi-statement scripts.
	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schema_version`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, m.Version); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSQLiteMigrate(t *testing.T) {
	sqlDB, err := OpenSQLite(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer sqlDB.Close()

	runner := NewSQLiteRunner(sqlDB, zerolog.Nop())
	ctx := context.Background()

	applied, err := runner.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied != 1 {
		t.Errorf("Migrate() applied = %d, want 1", applied)
	}

	applied, err = runner.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("second Migrate() applied = %d, want 0", applied)
	}

	for _, table := range []string{"users", "habit", "daily_task"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := sqlDB.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestReadMigrations(t *testing.T) {
	for name, runner := range map[string]*Runner{
		"sqlite":   NewSQLiteRunner(nil, zerolog.Nop()),
		"postgres": NewPostgresRunner(nil, zerolog.Nop()),
	} {
		t.Run(name, func(t *testing.T) {
			migrations, err := runner.ReadMigrations()
			if err != nil {
				t.Fatalf("ReadMigrations() error = %v", err)
			}
			if len(migrations) == 0 || migrations[0].Version != 1 || migrations[0].Name != "init" {
				t.Errorf("ReadMigrations() = %+v, want 001_init first", migrations)
			}
		})
	}
}

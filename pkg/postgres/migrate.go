package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // register pgx5 driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // register file source driver
)

// RunMigrations applies all pending migrations from dir. dir may be a plain
// path or a source URL such as "file://./migrations". Having nothing to
// apply is not an error.
func RunMigrations(dsn, dir string) error {
	m, err := migrate.New(SourceURL(dir), DatabaseURL(dsn))
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations up: %w", err)
	}

	return nil
}

// RunMigrationsDown rolls back all database migrations.
func RunMigrationsDown(dsn, dir string) error {
	m, err := migrate.New(SourceURL(dir), DatabaseURL(dsn))
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations down: %w", err)
	}

	return nil
}

// SourceURL turns a directory into a migrate file source URL.
func SourceURL(dir string) string {
	if strings.Contains(dir, "://") {
		return dir
	}
	return "file://" + dir
}

// DatabaseURL rewrites a postgres:// DSN to the pgx5:// scheme the
// migrate driver registers under.
func DatabaseURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

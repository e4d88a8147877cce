package auth

import (
	"database/sql"
	stderrors "errors"

	"github.com/goliatone/go-errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const migrationsRoot = "data/sql/migrations"

// Migrate applies the embedded migrations to a SQLite database. It is safe
// to call on an up to date schema. The caller keeps ownership of db.
func Migrate(db *sql.DB) (uint, error) {
	source, err := iofs.New(migrationsFS, migrationsRoot)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to open embedded migrations")
	}
	defer source.Close()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to prepare migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to initialize migrations")
	}

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to apply migrations")
	}

	version, _, err := m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to read migration version")
	}

	return version, nil
}

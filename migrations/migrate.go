// Package migrations owns the token store schema. Migrations are embedded
// so the binary carries its own schema and can bootstrap an empty database.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var files embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "[newMigrator] creating postgres driver")
	}

	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, errors.Wrap(err, "[newMigrator] creating migration source")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, "[newMigrator] creating migrator")
	}
	return m, nil
}

// Apply runs all pending migrations. Already applied migrations are skipped.
func Apply(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "[Apply] running migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "[Apply] reading migration version")
	}
	if dirty {
		log.Warn().Uint("version", version).Msg("migration state is dirty")
	} else {
		log.Info().Uint("version", version).Msg("migrations complete")
	}

	return nil
}

// Rollback reverts every migration. Destroys all stored grants and
// partnerships; development use only.
func Rollback(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "[Rollback] rolling back migrations")
	}
	return nil
}

package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies (up) or rolls back (down) the embedded migrations over a
// database/sql handle borrowed from the pool.
func (s *Store) Migrate(up bool) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("create embedded migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	direction := "up"
	if up {
		err = migrator.Up()
	} else {
		direction = "down"
		err = migrator.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		s.log.Info("No new migrations to apply", logger.StringField("direction", direction))
		return nil
	}
	if err != nil {
		s.log.Error("Failed to run migrations", logger.ErrorField(err))
		return fmt.Errorf("run migrations %s: %w", direction, err)
	}

	s.log.Info("Successfully applied migrations", logger.StringField("direction", direction))
	return nil
}

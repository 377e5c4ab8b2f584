// Package migrate applies the embedded SQL migrations with golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shandysiswandi/medibook/migrations"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var (
	// ErrEmptyDSN is returned when no database URL is given.
	ErrEmptyDSN = errors.New("migrate: database url is empty")
	// ErrInvalidDirection is returned for a direction other than up or down.
	ErrInvalidDirection = errors.New("migrate: direction must be up or down")
)

// Run applies all migrations in direction against dsn. Being already at the
// target version is not an error.
func Run(dsn, direction string) (err error) {
	if dsn == "" {
		return ErrEmptyDSN
	}
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("%w: got %q", ErrInvalidDirection, direction)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		err = errors.Join(err, srcErr, dbErr)
	}()

	if direction == DirectionUp {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

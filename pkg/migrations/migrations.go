package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds every registered catalog migration.
var Migrations = migrate.NewMigrations()

// NewMigrator returns a migrator that only records a migration once it has
// succeeded.
func NewMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, Migrations, migrate.WithMarkAppliedOnSuccess(true))
}

// BringUpToDate creates the bookkeeping tables if needed and applies every
// pending migration while holding the migration lock.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(db)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	var group *migrate.MigrationGroup
	err := withLock(ctx, migrator, func() error {
		var err error
		group, err = migrator.Migrate(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Rollback undoes the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(db)

	var group *migrate.MigrationGroup
	err := withLock(ctx, migrator, func() error {
		var err error
		group, err = migrator.Rollback(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func withLock(ctx context.Context, migrator *migrate.Migrator, fn func() error) (err error) {
	if err := migrator.Lock(ctx); err != nil {
		return errors.Wrap(err, "migrations are locked by another process")
	}
	defer func() {
		if unlockErr := migrator.Unlock(ctx); unlockErr != nil && err == nil {
			err = errors.WithStack(unlockErr)
		}
	}()

	return errors.WithStack(fn())
}

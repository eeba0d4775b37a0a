package migration

import (
	"context"
	"errors"

	"github.com/questx-lab/nftmint/internal/entity"
	"github.com/questx-lab/nftmint/pkg/xcontext"
	"gorm.io/gorm"
)

type migrator func(context.Context) error

// Append new migrators to the end. The index of a migrator is its version.
var migrators = []migrator{
	migrate0000,
}

// Migrate runs every migrator whose version has not been recorded yet.
func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	var last entity.Migration
	next := 0
	err := db.Order("version DESC").Take(&last).Error
	switch {
	case err == nil:
		next = last.Version + 1
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	for version := next; version < len(migrators); version++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			txCtx := xcontext.WithDB(ctx, tx)
			if err := migrators[version](txCtx); err != nil {
				return err
			}

			return tx.Create(&entity.Migration{Version: version}).Error
		})
		if err != nil {
			return err
		}

		xcontext.Logger(ctx).Infof("Migrated database to version %d", version)
	}

	return nil
}

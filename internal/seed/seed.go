// Package seed bootstraps records the application expects to exist, so
// a fresh install is usable without any manual setup.
package seed

import (
	"context"
	"errors"

	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"github.com/vamsi4727/bhanus-studio-billing/internal/settings"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureStudioProfile inserts an empty studio profile when none exists.
// An already-saved profile is never touched.
func EnsureStudioProfile(db *gorm.DB, clk clock.Clock) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&settings.Record{}).
			Where("key = ?", settings.ProfileKey).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		record := settings.Record{
			Key: settings.ProfileKey,
			Value: datatypes.JSONMap{
				"name":    "Bhanus Studio",
				"address": "",
				"phone":   "",
				"email":   "",
			},
			UpdatedAt: clk.Now().UTC(),
		}
		return tx.Create(&record).Error
	})
}

package migration

import (
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"github.com/vamsi4727/bhanus-studio-billing/internal/config"
	"github.com/vamsi4727/bhanus-studio-billing/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, clk clock.Clock) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		return seed.EnsureStudioProfile(conn, clk)
	}),
)

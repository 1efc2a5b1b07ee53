package migration

import (
	"github.com/leavesync/leavesync/internal/config"
	"github.com/leavesync/leavesync/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres setups (local sqlite) use gorm's migrator.
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}
		return seed.EnsureDefaultLeaveTypes(conn)
	}),
)

package migration

import (
	"github.com/voozea/voozea/internal/config"
	"github.com/voozea/voozea/internal/seed"
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
		}

		if err := seed.EnsureDefaultCategories(conn); err != nil {
			return err
		}
		if cfg.Bootstrap.EnsureDefaultAdmin {
			return seed.EnsureDefaultAdmin(conn)
		}
		return nil
	}),
)

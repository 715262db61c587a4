package db

import (
	"time"

	"github.com/voozea/voozea/internal/config"
	obslogger "github.com/voozea/voozea/internal/observability/logger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// New opens the gorm connection with pooling configured from Config.
func New(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: obslogger.NewGormLogger(obslogger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)

	return conn, nil
}

// Module provides the shared *gorm.DB.
var Module = fx.Module("db",
	fx.Provide(New),
)

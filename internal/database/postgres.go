package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	start := time.Now()
	ctx := context.Background()
	defer func() {
		observability.RecordDatabaseStartupDuration(ctx, "connect", time.Since(start))
	}()

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	case "", "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		observability.RecordDatabaseStartupEvent(ctx, "connect", "error")
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "connect", "error")
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite only enforces the ON DELETE CASCADE constraints with this pragma.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			observability.RecordDatabaseStartupEvent(ctx, "connect", "error")
			return nil, err
		}
	}
	observability.RecordDatabaseStartupEvent(ctx, "connect", "success")
	return db, nil
}

package database

import (
	"context"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "migrate", time.Since(start))
	}()
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Business{},
		&domain.Review{},
		&domain.IdempotencyRecord{},
	)
	if err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "success")
	return nil
}

type MigrationStatus struct {
	Table  string `json:"table"`
	Exists bool   `json:"exists"`
}

// Status reports which of the managed tables exist.
func Status(db *gorm.DB) []MigrationStatus {
	models := []struct {
		table string
		model any
	}{
		{"users", &domain.User{}},
		{"businesses", &domain.Business{}},
		{"reviews", &domain.Review{}},
		{"idempotency_records", &domain.IdempotencyRecord{}},
	}
	out := make([]MigrationStatus, 0, len(models))
	for _, m := range models {
		out = append(out, MigrationStatus{Table: m.table, Exists: db.Migrator().HasTable(m.model)})
	}
	return out
}

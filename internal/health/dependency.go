package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Database pings the pool behind db. Returns nil when db is nil.
func Database(db *gorm.DB) *Check {
	if db == nil {
		return nil
	}
	return &Check{Name: "db", Probe: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func Redis(client redis.UniversalClient) *Check {
	if client == nil {
		return nil
	}
	return &Check{Name: "redis", Probe: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// Pinger is satisfied by stores that can cheaply confirm reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func ObjectStore(name string, store Pinger) *Check {
	if store == nil {
		return nil
	}
	return &Check{Name: name, Probe: store.Ping}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/storage"
)

// StorageHandle is the persistent storage selected by STORAGE_DRIVER.
type StorageHandle struct {
	Driver  string
	Storage storage.Storage
	Ping    func(ctx context.Context) error
	Close   func() error
}

func OpenStorage(ctx context.Context, env configs.ENV) (*StorageHandle, error) {
	switch env.StorageDriver {
	case configs.StorageDriverMemory, "":
		return &StorageHandle{
			Driver:  configs.StorageDriverMemory,
			Storage: storage.NewMemory(),
			Close:   func() error { return nil },
		}, nil

	case configs.StorageDriverRedis:
		client, err := configs.OpenRedis(ctx, env)
		if err != nil {
			return nil, err
		}
		return &StorageHandle{
			Driver:  configs.StorageDriverRedis,
			Storage: storage.NewRedisStorage(client),
			Ping:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:   client.Close,
		}, nil

	case configs.StorageDriverMySQL:
		db, err := configs.OpenConnection(env)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
		}
		return &StorageHandle{
			Driver:  configs.StorageDriverMySQL,
			Storage: repositories.NewStorageEntryRepository(db),
			Ping:    sqlDB.PingContext,
			Close:   sqlDB.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want memory, redis or mysql)", env.StorageDriver)
	}
}

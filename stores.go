package main

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/kylycht/flux/storage"
	"github.com/kylycht/flux/storage/kv"
	"github.com/kylycht/flux/storage/persistence"
	"github.com/kylycht/flux/storage/redisstore"
	"github.com/rs/zerolog/log"
)

// openStore returns the key-value store selected by cfg.Driver
func openStore(ctx context.Context, cfg StorageConfig) (storage.Store, error) {
	log.Debug().Str("driver", cfg.Driver).Msg("initialize store")

	switch cfg.Driver {
	case "", "file":
		return kv.Open(cfg.Path)

	case "memory":
		return kv.NewMemory(), nil

	case "postgres", "mysql":
		dsn := cfg.DSN
		if dsn == "" && cfg.Driver == "mysql" {
			dsn = mysqlDSN(cfg.MySQL)
		}
		p, err := persistence.Open(ctx, cfg.Driver, dsn, cfg.Table, cfg.Migrate)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "redis":
		s, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
}

func mysqlDSN(cfg MySQLConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = cfg.Addr
	c.DBName = cfg.Database
	return c.FormatDSN()
}

// Package redisstore keeps the widget state in redis.
package redisstore

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	"github.com/kylycht/flux/storage"
)

// Config of the redis connection
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // prepended to every key
}

type Store struct {
	rdb    *redis.Client
	prefix string
}

// Open connects to redis and checks the connection
func Open(ctx context.Context, cfg Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &Store{rdb: rdb, prefix: cfg.Prefix}, nil
}

// Get implements storage.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

// Set implements storage.Store. Values never expire.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return s.rdb.Close()
}

var _ storage.Store = (*Store)(nil)

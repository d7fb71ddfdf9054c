// Package rediskv stores values as Redis strings under a common key prefix.
package rediskv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/deptportal/core"
)

type Storage struct {
	client *redis.Client
	prefix string
}

var _ core.StorageCloser = (*Storage)(nil)

// NewClient connects to redis with short timeouts.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

func New(client *redis.Client, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

func (s *Storage) key(key string) string { return s.prefix + key }

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	switch {
	case err == redis.Nil:
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrapf(err, "redis GET %q", key)
	}
	return val, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %q", key)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrapf(err, "redis DEL %q", key)
	}
	return nil
}

// Healthy verifies redis connectivity.
func (s *Storage) Healthy(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

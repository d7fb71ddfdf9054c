// Package sqlkv stores values in the kv_store table of a Postgres or SQLite database.
package sqlkv

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
)

const (
	getQuery    = `SELECT value FROM kv_store WHERE key = ?`
	upsertQuery = `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	removeQuery = `DELETE FROM kv_store WHERE key = ?`
	keysQuery   = `SELECT key FROM kv_store ORDER BY key`
)

type Storage struct {
	db *sqlx.DB
}

var _ core.StorageCloser = (*Storage)(nil)

// New wraps an open database whose kv_store table already exists (see database.Migrate).
func New(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(getQuery), key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrapf(err, "selecting %q", key)
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(upsertQuery), key, value, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "upserting %q", key)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(removeQuery), key); err != nil {
		return errors.Wrapf(err, "deleting %q", key)
	}
	return nil
}

// Keys lists the stored keys in order.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	if err := s.db.SelectContext(ctx, &keys, keysQuery); err != nil {
		return nil, errors.Wrap(err, "listing keys")
	}
	return keys, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

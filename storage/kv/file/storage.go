// Package filekv keeps every key in a single JSON document on disk.
package filekv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
)

// Storage loads the document once and rewrites it atomically (temp file + rename) on every change.
type Storage struct {
	path  string
	mutex sync.RWMutex
	table map[string]string
}

var _ core.StorageCloser = (*Storage)(nil)

// Open loads the document at path, starting empty when the file does not exist.
func Open(path string) (*Storage, error) {
	s := &Storage{path: path, table: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.table); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if s.table == nil {
		s.table = make(map[string]string)
	}
	return s, nil
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	val, ok := s.table[key]
	return val, ok, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, had := s.table[key]
	s.table[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.table[key] = prev
		} else {
			delete(s.table, key)
		}
		return err
	}
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, had := s.table[key]
	if !had {
		return nil
	}
	delete(s.table, key)
	if err := s.flush(); err != nil {
		s.table[key] = prev
		return err
	}
	return nil
}

// flush must be called with the write lock held.
func (s *Storage) flush() error {
	data, err := json.MarshalIndent(s.table, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding storage")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replacing %s", s.path)
	}
	return nil
}

func (s *Storage) Path() string { return s.path }

func (s *Storage) Close() error { return nil }

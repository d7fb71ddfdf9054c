package inmemkv

import (
	"context"
	"sync"

	"github.com/trezcool/deptportal/core"
)

type Storage struct {
	mutex sync.RWMutex
	table map[string]string
}

var _ core.StorageCloser = (*Storage)(nil) // interface compliance check

func New() *Storage {
	return &Storage{table: make(map[string]string)}
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
	s.table[key] = value
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Storage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.table)
}

func (s *Storage) Close() error { return nil }

// Package record provides a generic, schema-agnostic store for named collections of identifiable records.
//
// Each collection is persisted as one JSON array under its key in a core.Storage; every operation reads,
// modifies and writes back the whole collection. Malformed persisted values read as an empty collection.
package record

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
)

var ErrNoStorage = errors.New("record: nil storage")

// Record is implemented by every type stored in a Collection.
// WithID returns a copy of the record with its id set.
type Record[T any] interface {
	GetID() string
	WithID(id string) T
}

// IDFunc generates fresh record ids.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.New().String()
}

type options struct {
	newID IDFunc
}

type Option func(*options)

// WithIDFunc overrides the id generator used by Add.
func WithIDFunc(fn IDFunc) Option {
	return func(o *options) { o.newID = fn }
}

// Collection is the accessor for the records persisted under one key.
// Read-modify-write cycles are serialized per Collection value only: two Collections over the same key,
// or two processes sharing the same storage, follow last-write-wins on the whole collection.
type Collection[T Record[T]] struct {
	key     string
	storage core.Storage
	logger  core.Logger
	newID   IDFunc
	mu      sync.Mutex
}

func NewCollection[T Record[T]](storage core.Storage, key string, logger core.Logger, opts ...Option) *Collection[T] {
	o := options{newID: NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		key:     key,
		storage: storage,
		logger:  logger,
		newID:   o.newID,
	}
}

func (c *Collection[T]) Key() string { return c.key }

// load returns the stored records. The error is only set when the storage itself fails;
// a missing or malformed value yields an empty collection.
func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	if c.storage == nil {
		return nil, ErrNoStorage
	}
	raw, ok, err := c.storage.Get(ctx, c.key)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", c.key)
	}
	items := make([]T, 0)
	if !ok || raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn("malformed collection treated as empty", errors.Wrapf(err, "decoding %q", c.key))
		return make([]T, 0), nil
	}
	if items == nil { // "null"
		items = make([]T, 0)
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if c.storage == nil {
		return ErrNoStorage
	}
	if items == nil {
		items = make([]T, 0)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", c.key)
	}
	if err := c.storage.Set(ctx, c.key, string(data)); err != nil {
		return errors.Wrapf(err, "writing %q", c.key)
	}
	return nil
}

// List returns all records in stored order. It never fails: storage errors are logged
// and reported as an empty collection.
func (c *Collection[T]) List(ctx context.Context) []T {
	items, err := c.load(ctx)
	if err != nil {
		c.logger.Error("listing collection", err)
		return make([]T, 0)
	}
	return items
}

// ReplaceAll overwrites the whole collection in a single write.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

// Add appends rec, assigning it a fresh id when it has none, and returns the stored record.
// Duplicate ids are not checked.
func (c *Collection[T]) Add(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return rec, err
	}
	if rec.GetID() == "" {
		rec = rec.WithID(c.newID())
	}
	items = append(items, rec)
	if err := c.save(ctx, items); err != nil {
		return rec, err
	}
	return rec, nil
}

// Update replaces, in place, the first record with rec's id.
// It returns nil without writing anything when no record matches.
func (c *Collection[T]) Update(ctx context.Context, rec T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, rec.GetID())
	if idx < 0 {
		return nil, nil
	}
	items[idx] = rec
	if err := c.save(ctx, items); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Remove deletes the first record with the given id and reports whether one was found.
func (c *Collection[T]) Remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return false, nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := c.save(ctx, items); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the first record with the given id, or nil.
func (c *Collection[T]) Get(ctx context.Context, id string) *T {
	items := c.List(ctx)
	if idx := indexOf(items, id); idx >= 0 {
		return &items[idx]
	}
	return nil
}

// Filter returns, in stored order, the records matching keep.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) []T {
	items := c.List(ctx)
	res := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			res = append(res, it)
		}
	}
	return res
}

// First returns at most the first n records in stored order.
func (c *Collection[T]) First(ctx context.Context, n int) []T {
	items := c.List(ctx)
	if n >= 0 && n < len(items) {
		return items[:n]
	}
	return items
}

// Seed writes records only when the key holds no value yet, and reports whether it did.
// An existing value is never overwritten, even an empty or malformed one.
func (c *Collection[T]) Seed(ctx context.Context, records []T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storage == nil {
		return false, ErrNoStorage
	}
	raw, ok, err := c.storage.Get(ctx, c.key)
	if err != nil {
		return false, errors.Wrapf(err, "reading %q", c.key)
	}
	if ok && raw != "" {
		return false, nil
	}
	if err := c.save(ctx, records); err != nil {
		return false, err
	}
	return true, nil
}

func indexOf[T Record[T]](items []T, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if it.GetID() == id {
			return i
		}
	}
	return -1
}

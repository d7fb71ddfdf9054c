package core

import "context"

// Storage is the string key-value substrate every store persists to.
// Values are whole serialized collections (or the session slot); there is no partial update.
type Storage interface {
	// Get returns the value stored under key; ok is false when the key has no value.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// StorageCloser is a Storage holding resources (files, connections) to release.
type StorageCloser interface {
	Storage
	Close() error
}

// Package storage provides the key-value backends that persist the cart
// document.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KVStore persists opaque documents under string keys. Get returns
// ErrNotFound when nothing is stored under key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Watcher is implemented by backends that can report writes made by other
// processes. The channel receives a value whenever key changes and is
// closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

package mirror

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("mirror: key not found")

// Backend persists raw blobs by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Watcher is implemented by backends shared between processes. The channel
// yields the key written by another process and closes when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

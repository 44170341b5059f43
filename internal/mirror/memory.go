package mirror

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps blobs in process memory. Nothing survives a restart.
type MemoryBackend struct {
	c *cache.Cache
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{c: cache.New(cache.NoExpiration, 0)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := b.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	raw := v.([]byte)
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	b.c.Set(key, cp, cache.NoExpiration)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.c.Delete(key)
	return nil
}

func (b *MemoryBackend) Close() error {
	b.c.Flush()
	return nil
}

package repository

import (
	"context"
	"sync"
)

// KeyValueRepository is the durable local storage tokens and profile records live in.
// Each single-key operation is atomic; Delete removes all given keys atomically.
type KeyValueRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type memoryKVRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKVRepository returns a process-local implementation.
func NewMemoryKVRepository() KeyValueRepository {
	return &memoryKVRepository{values: make(map[string]string)}
}

func (r *memoryKVRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.values[key]
	return val, ok, nil
}

func (r *memoryKVRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memoryKVRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.values, key)
	}
	return nil
}

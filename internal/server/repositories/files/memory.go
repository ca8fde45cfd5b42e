package files

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	names []string
	seen  map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{seen: make(map[string]struct{})}
}

func (r *MemoryRepository) Add(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[name]; ok {
		return nil
	}
	r.seen[name] = struct{}{}
	r.names = append(r.names, name)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.names))
	copy(out, r.names)
	return out, nil
}

package document

import (
	"context"
	"sync"
)

// MemoryRepository keeps documents in process memory. It backs
// deployments that run without a database and the package tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs []Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(_ context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	return nil
}

func (r *MemoryRepository) ByFolder(_ context.Context, folder string) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, d := range r.docs {
		if d.Folder == folder {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Folders(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, d := range r.docs {
		if _, ok := seen[d.Folder]; ok {
			continue
		}
		seen[d.Folder] = struct{}{}
		out = append(out, d.Folder)
	}
	return out, nil
}

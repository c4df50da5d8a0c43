// Package memory is an in-process record store used for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mamadbah2/poultry-api/internal/domain/apperrors"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

type entry struct {
	id        int64
	doc       any
	createdAt time.Time
}

// Repository keeps every stored document in memory. Identifiers are sequential per entity.
type Repository struct {
	mu      sync.RWMutex
	seq     map[models.Entity]int64
	entries map[models.Entity][]entry
	now     func() time.Time
}

// NewRepository creates an empty store.
func NewRepository() *Repository {
	return &Repository{
		seq:     make(map[models.Entity]int64),
		entries: make(map[models.Entity][]entry),
		now:     time.Now,
	}
}

// Store appends doc to the entity's collection.
func (r *Repository) Store(ctx context.Context, entity models.Entity, doc any) (models.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return models.Receipt{}, apperrors.Storage("insert "+entity.String(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq[entity]++
	e := entry{id: r.seq[entity], doc: doc, createdAt: r.now().UTC()}
	r.entries[entity] = append(r.entries[entity], e)

	return models.Receipt{ID: e.id, CreatedAt: e.createdAt}, nil
}

// CountSince counts the entity's documents created at or after since.
func (r *Repository) CountSince(ctx context.Context, entity models.Entity, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Storage("count "+entity.String(), err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, e := range r.entries[entity] {
		if !e.createdAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// Get returns a stored document by id.
func (r *Repository) Get(entity models.Entity, id int64) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[entity] {
		if e.id == id {
			return e.doc, true
		}
	}
	return nil, false
}

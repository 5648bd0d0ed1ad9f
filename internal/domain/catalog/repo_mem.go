package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/opd/console/internal/domain/orders"
)

type nameKey struct {
	category orders.Category
	name     string
}

// MemRepo is an in-memory catalog keyed by id and by (category, name).
// Entries keep their insertion order so search results match the order
// the catalog was loaded in.
type MemRepo struct {
	mu      sync.RWMutex
	entries []*Entry
	byID    map[uuid.UUID]*Entry
	byName  map[nameKey]*Entry
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		byID:   make(map[uuid.UUID]*Entry),
		byName: make(map[nameKey]*Entry),
	}
}

func (r *MemRepo) Create(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, e)
	r.byID[e.ID] = e
	r.byName[nameKey{e.Category, e.Name}] = e
	return nil
}

func (r *MemRepo) GetByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (r *MemRepo) GetByName(_ context.Context, category orders.Category, name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[nameKey{category, name}]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (r *MemRepo) Search(_ context.Context, category orders.Category, q string, limit, offset int) ([]*Entry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = strings.ToLower(strings.TrimSpace(q))
	matched := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if category != "" && e.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Pinyin), q) {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	if offset >= total {
		return []*Entry{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

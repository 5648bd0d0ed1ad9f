package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/opd/console/internal/domain/orders"
)

var ErrNotFound = errors.New("catalog entry not found")

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetByName(ctx context.Context, category orders.Category, name string) (*Entry, error)
	// Search matches q against name and pinyin initials, case-insensitively.
	// An empty q returns everything in catalog order; an empty category
	// matches every category.
	Search(ctx context.Context, category orders.Category, q string, limit, offset int) ([]*Entry, int, error)
}

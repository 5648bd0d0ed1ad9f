package catalog

import (
	"context"

	"github.com/opd/console/internal/domain/orders"
)

// Service answers catalog queries for the order console. It also acts
// as the order book's reference source for item insertion and as the
// provider of herbal formula templates.
type Service struct {
	repo     Repository
	formulas map[string]Formula
	order    []string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		formulas: make(map[string]Formula),
	}
}

// LoadFormulas registers the herbal formula templates in the given order.
func (s *Service) LoadFormulas(formulas []Formula) {
	for _, f := range formulas {
		if _, ok := s.formulas[f.Name]; !ok {
			s.order = append(s.order, f.Name)
		}
		s.formulas[f.Name] = f
	}
}

func (s *Service) Search(ctx context.Context, category orders.Category, q string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.Search(ctx, category, q, limit, offset)
}

func (s *Service) GetByName(ctx context.Context, category orders.Category, name string) (*Entry, error) {
	return s.repo.GetByName(ctx, category, name)
}

// Lookup resolves a catalog entry into the reference fields the order
// book copies onto a new item. It satisfies the order service's catalog
// dependency.
func (s *Service) Lookup(ctx context.Context, category orders.Category, name string) (*orders.CatalogItem, error) {
	e, err := s.repo.GetByName(ctx, category, name)
	if err != nil {
		return nil, err
	}
	return &orders.CatalogItem{
		ID:        e.ID,
		Name:      e.Name,
		Spec:      e.Spec,
		UnitPrice: e.UnitPrice,
		PackSize:  e.PackSize,
	}, nil
}

// Formula returns a named template's herbs. It satisfies the order
// handler's formula source.
func (s *Service) Formula(name string) ([]orders.FormulaHerb, bool) {
	f, ok := s.formulas[name]
	if !ok {
		return nil, false
	}
	return f.Herbs, true
}

// Formulas lists the registered templates in load order.
func (s *Service) Formulas() []Formula {
	out := make([]Formula, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.formulas[name])
	}
	return out
}

package catalog

import (
	"github.com/google/uuid"

	"github.com/opd/console/internal/domain/orders"
)

// Entry is one orderable item in the facility catalog: a drug, a lab
// panel, an examination, a treatment, a single herb, or a consumable.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  orders.Category `json:"category"`
	Spec      string          `json:"spec,omitempty"`
	UnitPrice float64         `json:"unit_price"`
	PackSize  int             `json:"pack_size,omitempty"`
	Pinyin    string          `json:"pinyin,omitempty"`
	Stock     int             `json:"stock,omitempty"`
}

// Formula is a named herbal prescription template. Applying it replaces
// the herbal draft set with its herbs.
type Formula struct {
	Name  string               `json:"name"`
	Herbs []orders.FormulaHerb `json:"herbs"`
}

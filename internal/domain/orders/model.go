package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is one of the six order kinds the console manages. The set is
// closed; every dispatch over it switches exhaustively.
type Category string

const (
	CategoryPrescription Category = "prescription"
	CategoryLabTest      Category = "lab-test"
	CategoryExam         Category = "exam"
	CategoryTreatment    Category = "treatment"
	CategoryHerbal       Category = "herbal"
	CategoryMaterial     Category = "material"
)

// AllCategories returns the fixed category set in display order.
func AllCategories() []Category {
	return []Category{
		CategoryPrescription,
		CategoryLabTest,
		CategoryExam,
		CategoryTreatment,
		CategoryHerbal,
		CategoryMaterial,
	}
}

// ParseCategory validates a category string from the API boundary.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPrescription, CategoryLabTest, CategoryExam,
		CategoryTreatment, CategoryHerbal, CategoryMaterial:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}

// ItemState is the lifecycle state of a single order line item.
// Transitions are monotonic: draft -> sent -> voided. A draft item is
// destroyed on removal; nothing ever re-enters draft.
type ItemState string

const (
	StateDraft  ItemState = "draft"
	StateSent   ItemState = "sent"
	StateVoided ItemState = "voided"
)

// Route is a drug administration route.
type Route string

const (
	RouteOral       Route = "oral"
	RouteTopical    Route = "topical"
	RouteIV         Route = "iv"
	RouteIM         Route = "im"
	RouteSC         Route = "sc"
	RouteInhalation Route = "inhalation"
)

var validRoutes = map[Route]bool{
	RouteOral: true, RouteTopical: true, RouteIV: true,
	RouteIM: true, RouteSC: true, RouteInhalation: true,
}

// ParseRoute validates a usage route string from the API boundary.
func ParseRoute(s string) (Route, error) {
	r := Route(s)
	if !validRoutes[r] {
		return "", fmt.Errorf("%w: unknown usage route %q", ErrValidation, s)
	}
	return r, nil
}

// Frequency is a standard dosing cadence abbreviation.
type Frequency string

const (
	FreqQD  Frequency = "QD"
	FreqBID Frequency = "BID"
	FreqTID Frequency = "TID"
	FreqQID Frequency = "QID"
	FreqQ6H Frequency = "Q6H"
	FreqQ8H Frequency = "Q8H"
	FreqPRN Frequency = "PRN"
)

var validFrequencies = map[Frequency]bool{
	FreqQD: true, FreqBID: true, FreqTID: true, FreqQID: true,
	FreqQ6H: true, FreqQ8H: true, FreqPRN: true,
}

// ParseFrequency validates a frequency code string from the API boundary.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !validFrequencies[f] {
		return "", fmt.Errorf("%w: unknown frequency code %q", ErrValidation, s)
	}
	return f, nil
}

// Prescription defaults applied when an item is added without explicit
// dosing inputs.
const (
	DefaultRoute        = RouteOral
	DefaultFrequency    = FreqQD
	DefaultDosage       = 1.0
	DefaultDurationDays = 3
)

// DefaultHerbGrams is the starting dose for a herb added without an
// explicit gram amount; the physician adjusts it afterwards.
const DefaultHerbGrams = 10

// Item is one line item in an order category. The struct is polymorphic
// over Category: only the field group matching the category is populated,
// and validate() enforces the category's requirements.
type Item struct {
	ID        uuid.UUID `json:"id"`
	CatalogID uuid.UUID `json:"catalog_id,omitempty"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	State     ItemState `json:"state"`
	Urgent    bool      `json:"urgent,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Prescription fields.
	Spec             string    `json:"spec,omitempty"`
	UnitPrice        float64   `json:"unit_price,omitempty"`
	Route            Route     `json:"usage_route,omitempty"`
	Frequency        Frequency `json:"frequency_code,omitempty"`
	Dosage           float64   `json:"dosage_per_administration,omitempty"`
	DurationDays     int       `json:"duration_days,omitempty"`
	PackSize         int       `json:"pack_size,omitempty"`
	DispenseQuantity int       `json:"dispense_quantity,omitempty"`
	Merged           bool      `json:"merged,omitempty"` // co-administer flag, presentation only

	// Lab test / exam / treatment / material fields.
	Detail   string `json:"detail,omitempty"`
	Quantity int    `json:"quantity,omitempty"` // material only

	// Herbal fields.
	DosageGrams int `json:"dosage_grams,omitempty"`
}

// Active reports whether the item participates in totals, counts, and
// name-based de-duplication.
func (it *Item) Active() bool {
	return it.State != StateVoided
}

// Editable reports whether the item's fields may still be mutated.
// Sent and voided items are immutable except for the sent->voided
// transition.
func (it *Item) Editable() bool {
	return it.State == StateDraft
}

func (it *Item) validate() error {
	if it.Name == "" {
		return fmt.Errorf("%w: item name is required", ErrValidation)
	}
	switch it.Category {
	case CategoryPrescription:
		if it.Dosage <= 0 {
			return fmt.Errorf("%w: dosage per administration must be positive", ErrValidation)
		}
		if it.DurationDays <= 0 {
			return fmt.Errorf("%w: duration days must be positive", ErrValidation)
		}
		if !validFrequencies[it.Frequency] {
			return fmt.Errorf("%w: unknown frequency code %q", ErrValidation, it.Frequency)
		}
		if !validRoutes[it.Route] {
			return fmt.Errorf("%w: unknown usage route %q", ErrValidation, it.Route)
		}
	case CategoryHerbal:
		if it.DosageGrams <= 0 {
			return fmt.Errorf("%w: herb dosage grams must be positive", ErrValidation)
		}
	case CategoryMaterial:
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: material quantity must be positive", ErrValidation)
		}
	case CategoryLabTest, CategoryExam, CategoryTreatment:
		// Name and optional detail are all these carry.
	default:
		return fmt.Errorf("%w: unknown category %q", ErrValidation, it.Category)
	}
	return nil
}

// markSent transitions a draft item to sent.
func (it *Item) markSent() error {
	if it.State != StateDraft {
		return fmt.Errorf("%w: item %s is %s, only draft items can be sent", ErrIllegalTransition, it.Name, it.State)
	}
	it.State = StateSent
	return nil
}

// void transitions a sent item to voided. Irreversible.
func (it *Item) void() error {
	if it.State != StateSent {
		return fmt.Errorf("%w: item %s is %s, only sent items can be voided", ErrIllegalTransition, it.Name, it.State)
	}
	it.State = StateVoided
	return nil
}

package orders

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Book is the full order set of one patient visit: one collection per
// category. A mutex serializes every mutation and its recalculation, so a
// reader never observes a half-applied change.
type Book struct {
	mu          sync.Mutex
	collections map[Category]*Collection
}

// NewBook creates an empty order book with all six category collections.
func NewBook() *Book {
	collections := make(map[Category]*Collection, len(AllCategories()))
	for _, cat := range AllCategories() {
		collections[cat] = NewCollection(cat)
	}
	return &Book{collections: collections}
}

// Add inserts the item into its category's collection.
func (b *Book) Add(it *Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, ok := b.collections[it.Category]
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, it.Category)
	}
	return col.Add(it)
}

// Get locates an item by id across all categories.
func (b *Book) Get(id uuid.UUID) (*Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.find(id)
}

func (b *Book) find(id uuid.UUID) (*Item, bool) {
	for _, cat := range AllCategories() {
		if it, ok := b.collections[cat].Get(id); ok {
			return it, true
		}
	}
	return nil, false
}

// PrescriptionUpdate carries the editable dosing inputs of a draft
// prescription. Nil fields are left unchanged.
type PrescriptionUpdate struct {
	Dosage       *float64
	Frequency    *Frequency
	DurationDays *int
	Route        *Route
	Merged       *bool
	Detail       *string
}

// UpdatePrescription mutates a draft prescription's dosing inputs and
// re-derives the dispense quantity and category total synchronously.
func (b *Book) UpdatePrescription(id uuid.UUID, upd PrescriptionUpdate) (*Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	col := b.collections[CategoryPrescription]
	it, ok := col.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !it.Editable() {
		return nil, fmt.Errorf("%w: %s is %s and cannot be edited", ErrIllegalTransition, it.Name, it.State)
	}

	if upd.Dosage != nil {
		if *upd.Dosage <= 0 {
			return nil, fmt.Errorf("%w: dosage per administration must be positive", ErrValidation)
		}
		it.Dosage = *upd.Dosage
	}
	if upd.Frequency != nil {
		if !validFrequencies[*upd.Frequency] {
			return nil, fmt.Errorf("%w: unknown frequency code %q", ErrValidation, *upd.Frequency)
		}
		it.Frequency = *upd.Frequency
	}
	if upd.DurationDays != nil {
		if *upd.DurationDays <= 0 {
			return nil, fmt.Errorf("%w: duration days must be positive", ErrValidation)
		}
		it.DurationDays = *upd.DurationDays
	}
	if upd.Route != nil {
		if !validRoutes[*upd.Route] {
			return nil, fmt.Errorf("%w: unknown usage route %q", ErrValidation, *upd.Route)
		}
		it.Route = *upd.Route
	}
	if upd.Merged != nil {
		it.Merged = *upd.Merged
	}
	if upd.Detail != nil {
		it.Detail = *upd.Detail
	}

	col.Recalculate()
	return it, nil
}

// SetUrgent flips the urgent triage flag. Allowed on any non-voided item;
// the flag is presentation-only and does not count as editing dosing state.
func (b *Book) SetUrgent(id uuid.UUID, urgent bool) (*Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	it, ok := b.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if it.State == StateVoided {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, it.Name)
	}
	it.Urgent = urgent
	return it, nil
}

// Remove applies the category collection's removal rules to the item.
// Returns the voided item when the removal was a confirmed void, nil when
// a draft was deleted.
func (b *Book) Remove(category Category, id uuid.UUID, confirmed bool) (*Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, ok := b.collections[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return col.Remove(id, confirmed)
}

// SendAll transitions every draft item across all categories to sent as
// one batch and returns how many were sent. With no drafts anywhere the
// call is a no-op returning ErrNothingToSend.
func (b *Book) SendAll() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sent := 0
	for _, cat := range AllCategories() {
		sent += b.collections[cat].sendDrafts()
	}
	if sent == 0 {
		return 0, ErrNothingToSend
	}
	return sent, nil
}

// PendingCount returns the number of draft items across all categories.
// It drives the visit completion gate.
func (b *Book) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, cat := range AllCategories() {
		n += b.collections[cat].PendingCount()
	}
	return n
}

// ClearDrafts bulk-deletes the draft items of one category.
func (b *Book) ClearDrafts(category Category) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, ok := b.collections[category]
	if !ok {
		return 0, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return col.clearDrafts(), nil
}

// ReplaceHerbalDrafts swaps the herbal draft set for a formula's herbs.
func (b *Book) ReplaceHerbalDrafts(items []*Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.collections[CategoryHerbal].replaceDrafts(items)
}

// Snapshot returns the rendering view of one category.
func (b *Book) Snapshot(category Category) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, ok := b.collections[category]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return col.Snapshot(), nil
}

// Snapshots returns every category's rendering view in display order.
func (b *Book) Snapshots() []Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Snapshot, 0, len(AllCategories()))
	for _, cat := range AllCategories() {
		out = append(out, b.collections[cat].Snapshot())
	}
	return out
}

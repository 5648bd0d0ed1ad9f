package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Collection holds the line items of one category in insertion order,
// which is also the display order. It is not safe for concurrent use on
// its own; the owning Book serializes access.
type Collection struct {
	category Category
	items    []*Item
	total    float64
}

// NewCollection creates an empty collection for the given category.
func NewCollection(category Category) *Collection {
	return &Collection{category: category}
}

// Snapshot is the per-category view handed to the presentation layer after
// every mutation.
type Snapshot struct {
	Category Category `json:"category"`
	Items    []*Item  `json:"items"`
	Total    float64  `json:"total"`
	Count    int      `json:"count"`
}

// Add validates the item and appends it. An active item with the same name
// already present makes the add a no-op returning ErrDuplicateItem:
// catalog display names are the addition key. (Two catalog entries sharing
// a name but differing in spec would collide on this key; the catalog id
// is kept on the item so the dedupe key can change if real identity keys
// arrive.)
func (c *Collection) Add(it *Item) error {
	if it.Category != c.category {
		return fmt.Errorf("%w: item category %s does not match collection %s", ErrValidation, it.Category, c.category)
	}
	if err := it.validate(); err != nil {
		return err
	}
	for _, existing := range c.items {
		if existing.Active() && existing.Name == it.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, it.Name)
		}
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.State = StateDraft
	it.CreatedAt = time.Now().UTC()
	c.items = append(c.items, it)
	c.Recalculate()
	return nil
}

// Get returns the item with the given id.
func (c *Collection) Get(id uuid.UUID) (*Item, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// Remove deletes a draft item outright. A sent item is never deleted: with
// confirmed it transitions to voided (history preserved), without it the
// call fails with ErrConfirmationRequired and nothing changes. A voided
// item reports ErrAlreadyFinalized. The voided item (if any) is returned
// so callers can report what happened.
func (c *Collection) Remove(id uuid.UUID, confirmed bool) (*Item, error) {
	idx := -1
	for i, it := range c.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	it := c.items[idx]
	switch it.State {
	case StateDraft:
		c.items = append(c.items[:idx], c.items[idx+1:]...)
		c.Recalculate()
		return nil, nil
	case StateSent:
		if !confirmed {
			return nil, fmt.Errorf("%w: %s was already sent and must be voided", ErrConfirmationRequired, it.Name)
		}
		if err := it.void(); err != nil {
			return nil, err
		}
		c.Recalculate()
		return it, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, it.Name)
	}
}

// Recalculate re-derives every dependent value: prescription dispense
// quantities and the category total. O(n), idempotent, and invoked
// synchronously after each mutation so consumers never observe stale
// totals.
func (c *Collection) Recalculate() {
	for _, it := range c.items {
		if it.Category == CategoryPrescription && it.Editable() {
			it.DispenseQuantity = DeriveDispenseQuantity(it.Dosage, it.Frequency, it.DurationDays, it.PackSize)
		}
	}
	c.total = CategoryTotal(c.items)
}

// Count returns the number of non-voided items (tab badge count).
func (c *Collection) Count() int {
	n := 0
	for _, it := range c.items {
		if it.Active() {
			n++
		}
	}
	return n
}

// PendingCount returns the number of draft items.
func (c *Collection) PendingCount() int {
	n := 0
	for _, it := range c.items {
		if it.State == StateDraft {
			n++
		}
	}
	return n
}

// Total returns the current category total.
func (c *Collection) Total() float64 {
	return c.total
}

// Items returns the items in insertion order. The slice is a copy; the
// items are shared.
func (c *Collection) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Snapshot builds the rendering view of the collection.
func (c *Collection) Snapshot() Snapshot {
	return Snapshot{
		Category: c.category,
		Items:    c.Items(),
		Total:    c.total,
		Count:    c.Count(),
	}
}

// sendDrafts transitions every draft item to sent, returning how many.
func (c *Collection) sendDrafts() int {
	n := 0
	for _, it := range c.items {
		if it.State == StateDraft {
			if err := it.markSent(); err == nil {
				n++
			}
		}
	}
	if n > 0 {
		c.Recalculate()
	}
	return n
}

// clearDrafts deletes every draft item, leaving sent and voided history
// untouched. Returns how many were deleted.
func (c *Collection) clearDrafts() int {
	kept := c.items[:0]
	n := 0
	for _, it := range c.items {
		if it.State == StateDraft {
			n++
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	if n > 0 {
		c.Recalculate()
	}
	return n
}

// replaceDrafts swaps the draft set for the given items, used by herbal
// formula templates. Sent and voided items are preserved, so an incoming
// item whose name is still active (sent) is rejected the same way Add
// rejects it: active names stay unique within the category.
func (c *Collection) replaceDrafts(items []*Item) error {
	for _, it := range items {
		if it.Category != c.category {
			return fmt.Errorf("%w: item category %s does not match collection %s", ErrValidation, it.Category, c.category)
		}
		if err := it.validate(); err != nil {
			return err
		}
		for _, existing := range c.items {
			if existing.State == StateSent && existing.Name == it.Name {
				return fmt.Errorf("%w: %s", ErrDuplicateItem, it.Name)
			}
		}
	}
	c.clearDrafts()
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.State = StateDraft
		it.CreatedAt = time.Now().UTC()
		c.items = append(c.items, it)
	}
	c.Recalculate()
	return nil
}

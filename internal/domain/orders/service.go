package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogItem is the slice of a catalog record the order engine needs when
// an item is added from a catalog selection.
type CatalogItem struct {
	ID        uuid.UUID
	Name      string
	Spec      string
	UnitPrice float64
	PackSize  int
}

// Catalog supplies canonical items on insertion.
type Catalog interface {
	Lookup(ctx context.Context, category Category, name string) (*CatalogItem, error)
}

// Notifier receives leveled outcome notices for the presentation layer.
type Notifier interface {
	Info(title, detail string)
	Success(title, detail string)
	Warning(title, detail string)
}

// Publisher pushes per-category snapshots to the rendering boundary after
// every mutation.
type Publisher interface {
	Publish(topic, eventType string, data interface{}) error
}

// Service owns one order book per patient visit and orchestrates catalog
// lookup, notification, and snapshot publishing around the books'
// mutations.
type Service struct {
	mu      sync.Mutex
	books   map[uuid.UUID]*Book
	catalog Catalog
	notices Notifier
	push    Publisher
	log     zerolog.Logger
}

// NewService creates an order service. push may be nil (tests).
func NewService(catalog Catalog, notices Notifier, push Publisher, log zerolog.Logger) *Service {
	return &Service{
		books:   make(map[uuid.UUID]*Book),
		catalog: catalog,
		notices: notices,
		push:    push,
		log:     log,
	}
}

// BookFor returns the patient's order book, creating it on first use. The
// book survives visit completion so a resumed consultation sees its
// earlier orders.
func (s *Service) BookFor(patientID uuid.UUID) *Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[patientID]
	if !ok {
		b = NewBook()
		s.books[patientID] = b
	}
	return b
}

// AddRequest carries the caller-supplied fields of a new item. Zero-valued
// dosing fields fall back to the category defaults.
type AddRequest struct {
	Name        string  `json:"name"`
	Detail      string  `json:"detail,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	DosageGrams int     `json:"dosage_grams,omitempty"`
	Dosage      float64 `json:"dosage_per_administration,omitempty"`
	Frequency   string  `json:"frequency_code,omitempty"`
	Route       string  `json:"usage_route,omitempty"`
	Duration    int     `json:"duration_days,omitempty"`
	Urgent      bool    `json:"urgent,omitempty"`
}

// Add builds an item from the request plus the catalog record (when one
// matches the name) and inserts it into the patient's book. A catalog miss
// is not an error: manual entries are allowed and price at zero.
func (s *Service) Add(ctx context.Context, patientID uuid.UUID, category Category, req AddRequest) (*Item, error) {
	if req.Name == "" {
		s.notices.Warning("Item not added", "a catalog selection or item name is required")
		return nil, fmt.Errorf("%w: item name is required", ErrValidation)
	}

	it := &Item{
		Name:     req.Name,
		Category: category,
		Urgent:   req.Urgent,
		Detail:   req.Detail,
	}

	if ref, err := s.catalog.Lookup(ctx, category, req.Name); err == nil {
		it.CatalogID = ref.ID
		it.Spec = ref.Spec
		it.UnitPrice = ref.UnitPrice
		it.PackSize = ref.PackSize
	}

	switch category {
	case CategoryPrescription:
		it.Route = DefaultRoute
		it.Frequency = DefaultFrequency
		it.Dosage = DefaultDosage
		it.DurationDays = DefaultDurationDays
		if req.Route != "" {
			r, err := ParseRoute(req.Route)
			if err != nil {
				return nil, err
			}
			it.Route = r
		}
		if req.Frequency != "" {
			f, err := ParseFrequency(req.Frequency)
			if err != nil {
				return nil, err
			}
			it.Frequency = f
		}
		if req.Dosage > 0 {
			it.Dosage = req.Dosage
		}
		if req.Duration > 0 {
			it.DurationDays = req.Duration
		}
	case CategoryMaterial:
		it.Quantity = req.Quantity
		if it.Quantity == 0 {
			it.Quantity = 1
		}
	case CategoryHerbal:
		it.DosageGrams = req.DosageGrams
		if it.DosageGrams <= 0 {
			it.DosageGrams = DefaultHerbGrams
		}
	}

	book := s.BookFor(patientID)
	if err := book.Add(it); err != nil {
		if errors.Is(err, ErrDuplicateItem) {
			s.notices.Warning("Already in order", req.Name)
		} else {
			s.notices.Warning("Item not added", err.Error())
		}
		return nil, err
	}

	s.log.Info().
		Str("patient_id", patientID.String()).
		Str("category", string(category)).
		Str("name", it.Name).
		Msg("order item added")
	s.notices.Success("Item added", it.Name)
	s.publishCategory(book, category)
	return it, nil
}

// UpdatePrescription edits a draft prescription's dosing inputs.
func (s *Service) UpdatePrescription(patientID uuid.UUID, id uuid.UUID, upd PrescriptionUpdate) (*Item, error) {
	book := s.BookFor(patientID)
	it, err := book.UpdatePrescription(id, upd)
	if err != nil {
		s.notices.Warning("Prescription not updated", err.Error())
		return nil, err
	}
	s.publishCategory(book, CategoryPrescription)
	return it, nil
}

// SetUrgent flips the urgent flag on an item.
func (s *Service) SetUrgent(patientID uuid.UUID, id uuid.UUID, urgent bool) (*Item, error) {
	book := s.BookFor(patientID)
	it, err := book.SetUrgent(id, urgent)
	if err != nil {
		return nil, err
	}
	if urgent {
		s.notices.Warning("Marked urgent", it.Name)
	} else {
		s.notices.Info("Urgent flag cleared", it.Name)
	}
	s.publishCategory(book, it.Category)
	return it, nil
}

// Remove deletes a draft item or, with confirmation, voids a sent one.
func (s *Service) Remove(patientID uuid.UUID, category Category, id uuid.UUID, confirmed bool) error {
	book := s.BookFor(patientID)
	voided, err := book.Remove(category, id, confirmed)
	if err != nil {
		switch {
		case errors.Is(err, ErrConfirmationRequired):
			// The caller's boundary prompts and retries with confirm.
		case errors.Is(err, ErrAlreadyFinalized):
			s.notices.Warning("Already voided", "the item was voided earlier")
		case errors.Is(err, ErrNotFound):
			// Stale reference from a prior render; benign.
		}
		return err
	}
	if voided != nil {
		s.notices.Info("Item voided", voided.Name)
	} else {
		s.notices.Info("Item removed", "")
	}
	s.publishCategory(book, category)
	return nil
}

// SendAll sends the patient's whole pending order set as one batch.
func (s *Service) SendAll(patientID uuid.UUID) (int, error) {
	book := s.BookFor(patientID)
	sent, err := book.SendAll()
	if err != nil {
		if errors.Is(err, ErrNothingToSend) {
			s.notices.Info("Nothing to send", "no draft orders")
		}
		return 0, err
	}
	s.log.Info().
		Str("patient_id", patientID.String()).
		Int("sent", sent).
		Msg("orders sent")
	s.notices.Success("Orders sent", fmt.Sprintf("%d orders sent", sent))
	s.publishAll(book)
	return sent, nil
}

// PendingCount reports the patient's draft item count across categories.
func (s *Service) PendingCount(patientID uuid.UUID) int {
	return s.BookFor(patientID).PendingCount()
}

// ClearDrafts bulk-deletes a category's unsent items.
func (s *Service) ClearDrafts(patientID uuid.UUID, category Category) (int, error) {
	book := s.BookFor(patientID)
	n, err := book.ClearDrafts(category)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		s.notices.Info("Nothing to clear", "no draft items")
		return 0, nil
	}
	s.notices.Info("Drafts cleared", fmt.Sprintf("%d draft items removed", n))
	s.publishCategory(book, category)
	return n, nil
}

// FormulaHerb is one herb line of a formula template.
type FormulaHerb struct {
	Name        string `json:"name"`
	DosageGrams int    `json:"dosage_grams"`
}

// ApplyFormula replaces the herbal draft set with the template's herbs.
func (s *Service) ApplyFormula(patientID uuid.UUID, name string, herbs []FormulaHerb) error {
	if len(herbs) == 0 {
		s.notices.Warning("Formula not applied", "the formula has no herbs")
		return fmt.Errorf("%w: formula %q has no herbs", ErrValidation, name)
	}
	items := make([]*Item, 0, len(herbs))
	for _, h := range herbs {
		items = append(items, &Item{
			Name:        h.Name,
			Category:    CategoryHerbal,
			DosageGrams: h.DosageGrams,
		})
	}
	book := s.BookFor(patientID)
	if err := book.ReplaceHerbalDrafts(items); err != nil {
		s.notices.Warning("Formula not applied", err.Error())
		return err
	}
	s.notices.Success("Formula loaded", name)
	s.publishCategory(book, CategoryHerbal)
	return nil
}

// Snapshot returns one category's rendering view.
func (s *Service) Snapshot(patientID uuid.UUID, category Category) (Snapshot, error) {
	return s.BookFor(patientID).Snapshot(category)
}

// Snapshots returns every category's rendering view.
func (s *Service) Snapshots(patientID uuid.UUID) []Snapshot {
	return s.BookFor(patientID).Snapshots()
}

func (s *Service) publishCategory(book *Book, category Category) {
	if s.push == nil {
		return
	}
	snap, err := book.Snapshot(category)
	if err != nil {
		return
	}
	if err := s.push.Publish(string(category), "snapshot", snap); err != nil {
		s.log.Warn().Err(err).Str("category", string(category)).Msg("snapshot publish failed")
	}
}

func (s *Service) publishAll(book *Book) {
	if s.push == nil {
		return
	}
	for _, snap := range book.Snapshots() {
		if err := s.push.Publish(string(snap.Category), "snapshot", snap); err != nil {
			s.log.Warn().Err(err).Str("category", string(snap.Category)).Msg("snapshot publish failed")
		}
	}
}

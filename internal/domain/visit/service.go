package visit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ledger is the order-side view the queue needs: how many drafts the
// patient still has, and a way to send them on confirmed completion.
type Ledger interface {
	PendingCount(patientID uuid.UUID) int
	SendAll(patientID uuid.UUID) (int, error)
}

// Notifier receives leveled outcome notices for the presentation layer.
type Notifier interface {
	Info(title, detail string)
	Success(title, detail string)
	Warning(title, detail string)
}

// Publisher pushes queue snapshots to the rendering boundary.
type Publisher interface {
	Publish(topic, eventType string, data interface{}) error
}

// Service runs a single consulting room: an ordered waiting queue, at
// most one patient in consultation, and a completed list with the most
// recent visit first.
type Service struct {
	mu        sync.Mutex
	waiting   []*Patient
	current   *Patient
	completed []*Patient
	ledger    Ledger
	notices   Notifier
	push      Publisher
	initials  func(string) string
	log       zerolog.Logger
}

// NewService creates a queue service. initials derives pinyin initials
// for search when a registration does not carry them; push may be nil.
func NewService(ledger Ledger, notices Notifier, push Publisher, initials func(string) string, log zerolog.Logger) *Service {
	if initials == nil {
		initials = func(string) string { return "" }
	}
	return &Service{
		ledger:   ledger,
		notices:  notices,
		push:     push,
		initials: initials,
		log:      log,
	}
}

// Load seeds the waiting queue without emitting notices.
func (s *Service) Load(patients []*Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range patients {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.State == "" {
			p.State = StateWaiting
		}
		if p.RegisteredAt.IsZero() {
			p.RegisteredAt = time.Now()
		}
		if p.Pinyin == "" {
			p.Pinyin = s.initials(p.Name)
		}
		s.waiting = append(s.waiting, p)
	}
}

// Register appends a walk-in patient to the waiting queue.
func (s *Service) Register(p *Patient) error {
	if err := p.validate(); err != nil {
		s.notices.Warning("Registration failed", err.Error())
		return err
	}

	s.mu.Lock()
	p.ID = uuid.New()
	p.State = StateWaiting
	p.Called = false
	p.RegisteredAt = time.Now()
	if p.Pinyin == "" {
		p.Pinyin = s.initials(p.Name)
	}
	s.waiting = append(s.waiting, p)
	s.mu.Unlock()

	s.log.Info().Str("patient_id", p.ID.String()).Str("name", p.Name).Msg("patient registered")
	s.notices.Success("Patient registered", p.Name)
	s.publishQueue("patient_registered")
	return nil
}

// Start moves a waiting or completed patient into consultation. The
// previously active patient, if any, is displaced back to the head of
// the waiting queue. Starting the already-active patient is a no-op.
func (s *Service) Start(patientID uuid.UUID) (*Patient, error) {
	s.mu.Lock()

	if s.current != nil && s.current.ID == patientID {
		p := s.current
		s.mu.Unlock()
		return p, nil
	}

	p, ok := s.takeLocked(patientID)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
	}
	s.displaceLocked()
	p.State = StateInConsultation
	s.current = p
	s.mu.Unlock()

	s.log.Info().Str("patient_id", p.ID.String()).Str("name", p.Name).Msg("consultation started")
	s.notices.Info("Consultation started", p.Name)
	s.publishQueue("consultation_started")
	return p, nil
}

// Cancel returns the active patient to the head of the waiting queue.
func (s *Service) Cancel() (*Patient, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveVisit
	}
	p := s.current
	s.current = nil
	p.State = StateWaiting
	s.waiting = append([]*Patient{p}, s.waiting...)
	s.mu.Unlock()

	s.notices.Info("Consultation cancelled", p.Name)
	s.publishQueue("consultation_cancelled")
	return p, nil
}

// Complete finishes the active visit. Unsent draft orders block it: the
// returned PendingOrdersError carries the count, and retrying with
// confirmSend sends the drafts before completing.
func (s *Service) Complete(confirmSend bool) (*Patient, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveVisit
	}
	p := s.current

	if pending := s.ledger.PendingCount(p.ID); pending > 0 {
		if !confirmSend {
			s.mu.Unlock()
			return nil, &PendingOrdersError{Count: pending}
		}
		s.mu.Unlock()
		if _, err := s.ledger.SendAll(p.ID); err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.current != p {
			s.mu.Unlock()
			return nil, ErrNoActiveVisit
		}
	}

	s.current = nil
	p.State = StateCompleted
	s.completed = append([]*Patient{p}, s.completed...)
	s.mu.Unlock()

	s.log.Info().Str("patient_id", p.ID.String()).Str("name", p.Name).Msg("visit completed")
	s.notices.Success("Visit completed", p.Name)
	s.publishQueue("visit_completed")
	return p, nil
}

// Resume reopens the most recently completed visit. The patient keeps
// their order book, so earlier orders reappear.
func (s *Service) Resume() (*Patient, error) {
	s.mu.Lock()
	if len(s.completed) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no completed visits to resume", ErrNotFound)
	}
	p := s.completed[0]
	s.completed = s.completed[1:]
	s.displaceLocked()
	p.State = StateInConsultation
	s.current = p
	s.mu.Unlock()

	s.notices.Info("Visit resumed", p.Name)
	s.publishQueue("visit_resumed")
	return p, nil
}

// CallNext flags the first un-called waiting patient and announces them.
func (s *Service) CallNext() (*Patient, error) {
	s.mu.Lock()
	var next *Patient
	for _, p := range s.waiting {
		if !p.Called {
			next = p
			break
		}
	}
	if next == nil {
		s.mu.Unlock()
		s.notices.Info("Queue", "all waiting patients have been called")
		return nil, nil
	}
	next.Called = true
	s.mu.Unlock()

	s.notices.Info("Calling patient", next.Name)
	s.publishQueue("patient_called")
	return next, nil
}

// Search matches the query against patient names and pinyin initials
// over the waiting and completed lists, case-insensitively.
func (s *Service) Search(query string) []*Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*Patient{}
	for _, p := range append(append([]*Patient{}, s.waiting...), s.completed...) {
		if matchPatient(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// QueueSnapshot is the queue's render state.
type QueueSnapshot struct {
	Waiting      []*Patient `json:"waiting"`
	Current      *Patient   `json:"current,omitempty"`
	Completed    []*Patient `json:"completed"`
	WaitingCount int        `json:"waiting_count"`
}

// Queue returns a copy of the queue state.
func (s *Service) Queue() QueueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// CurrentPatientID reports the patient in consultation. It satisfies
// the order handler's active-visit dependency.
func (s *Service) CurrentPatientID() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return uuid.Nil, false
	}
	return s.current.ID, true
}

// takeLocked removes the patient from the waiting or completed list.
func (s *Service) takeLocked(id uuid.UUID) (*Patient, bool) {
	for i, p := range s.waiting {
		if p.ID == id {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			return p, true
		}
	}
	for i, p := range s.completed {
		if p.ID == id {
			s.completed = append(s.completed[:i], s.completed[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// displaceLocked pushes the active patient back to the queue head.
func (s *Service) displaceLocked() {
	if s.current == nil {
		return
	}
	p := s.current
	s.current = nil
	p.State = StateWaiting
	s.waiting = append([]*Patient{p}, s.waiting...)
}

func (s *Service) snapshotLocked() QueueSnapshot {
	return QueueSnapshot{
		Waiting:      append([]*Patient{}, s.waiting...),
		Current:      s.current,
		Completed:    append([]*Patient{}, s.completed...),
		WaitingCount: len(s.waiting),
	}
}

func (s *Service) publishQueue(eventType string) {
	if s.push == nil {
		return
	}
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if err := s.push.Publish("queue", eventType, snap); err != nil {
		s.log.Warn().Err(err).Msg("queue snapshot publish failed")
	}
}

func matchPatient(p *Patient, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Pinyin), q)
}

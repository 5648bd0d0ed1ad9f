package visit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueueState is a patient's position in the consultation lifecycle.
type QueueState string

const (
	StateWaiting        QueueState = "waiting"
	StateInConsultation QueueState = "in-consultation"
	StateCompleted      QueueState = "completed"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("patient not found")
	ErrNoActiveVisit = errors.New("no patient is in consultation")
)

// PendingOrdersError blocks completion while draft orders remain unsent.
// The caller either confirms sending or keeps the visit open.
type PendingOrdersError struct {
	Count int
}

func (e *PendingOrdersError) Error() string {
	return fmt.Sprintf("%d draft orders have not been sent", e.Count)
}

// Patient is one registered visit in the day's queue.
type Patient struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Gender       string     `json:"gender"`
	Age          int        `json:"age"`
	Phone        string     `json:"phone,omitempty"`
	State        QueueState `json:"state"`
	Called       bool       `json:"called"`
	Pinyin       string     `json:"pinyin,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
}

func (p *Patient) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	if p.Gender == "" {
		return fmt.Errorf("%w: patient gender is required", ErrValidation)
	}
	if p.Age <= 0 || p.Age > 150 {
		return fmt.Errorf("%w: patient age must be between 1 and 150", ErrValidation)
	}
	return nil
}

package orders

import "errors"

// Failure classes surfaced at the API boundary. All of them are recovered
// locally: the operation aborts without mutating state and the caller gets
// a leveled notice, never a crash.
var (
	// ErrValidation marks a missing or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateItem is returned when an active item with the same name
	// already exists in the category. The add is a no-op.
	ErrDuplicateItem = errors.New("item already active in category")

	// ErrConfirmationRequired gates removal of a sent item: the caller must
	// confirm before the item is voided.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrAlreadyFinalized is returned for operations on a voided item.
	ErrAlreadyFinalized = errors.New("item already finalized")

	// ErrIllegalTransition marks a state transition outside
	// draft -> sent -> voided.
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrNotFound is returned for stale ids. Benign: collections are the
	// source of truth and references from prior renders are expected.
	ErrNotFound = errors.New("item not found")

	// ErrNothingToSend is returned by SendAll when no draft items exist in
	// any category.
	ErrNothingToSend = errors.New("no draft orders to send")
)

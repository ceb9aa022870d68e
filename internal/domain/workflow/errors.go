package workflow

import "errors"

var (
	// ErrNotFound is returned when the referenced transaction does not exist
	ErrNotFound = errors.New("transaction not found")

	// ErrAlreadyFinalized is returned when an action targets a terminal transaction
	ErrAlreadyFinalized = errors.New("transaction already finalized")

	// ErrAlreadyActed is returned when the actor already recorded an action at the current stage
	ErrAlreadyActed = errors.New("actor already acted at this stage")

	// ErrUnauthorized is returned when the actor's role is not permitted at the
	// current stage, or the requested action is not permitted there
	ErrUnauthorized = errors.New("actor not authorized for this action")

	// ErrStaleState is returned when the conditional write detected a concurrent
	// change; the caller must re-fetch and decide whether to retry
	ErrStaleState = errors.New("transaction state changed concurrently")

	// ErrInvalidRouting is returned at startup when the routing table is malformed
	ErrInvalidRouting = errors.New("invalid routing configuration")
)

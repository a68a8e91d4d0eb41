// syndicare/internal/handlers/errors.go
package handlers

import (
	"errors"
	"fmt"
)

// Domain error taxonomy shared by the charge ledger and the reclamation
// lifecycle. Handlers translate these into HTTP responses; anything else that
// bubbles up from the storage layer is reported as an internal error.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrForbidden    = errors.New("operation not allowed for this user")
	ErrInvalidState = errors.New("operation not legal in the current state")
)

// ValidationError marks malformed or missing input detected before any
// mutation happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidTransitionError is returned when a reclamation status change is not
// permitted by the transition graph. It keeps both statuses so the API can
// render a precise message.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

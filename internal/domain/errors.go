/**
 * @description
 * This file defines the error taxonomy for the checkout funnel. Each variant
 * carries a different user-facing policy: validation errors are returned to
 * the form, gateway failures are retryable, and storage failures degrade the
 * session to a process-local store without ever blocking the purchase.
 */
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrGatewayUnavailable marks a transient submission failure. The session
	// and its snapshot are preserved so the user can retry without re-entering
	// anything.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrStorageUnavailable marks snapshot storage failure. Callers swallow it
	// and continue on a process-local store, losing durability only.
	ErrStorageUnavailable = errors.New("snapshot storage unavailable")

	// ErrSessionBusy rejects a submit while a previous submission for the same
	// session key is still in flight.
	ErrSessionBusy = errors.New("checkout submission already in progress")
)

// ValidationError carries a field -> message map for a rejected step
// transition. It is user-correctable and never logged as a failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Package apperr defines the error taxonomy shared by every bounded context.
// Contexts wrap these sentinels with fmt.Errorf("%w: ...") so adapters can
// classify failures with errors.Is without knowing the context that raised them.
package apperr

import "errors"

var (
	// ErrNotFound signals a referenced product, case, order or user is absent.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock signals the requested quantity exceeds the available pool.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidState signals an operation on a record outside the required lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrLogic signals a business rule violation, e.g. selling more than was loaned.
	ErrLogic = errors.New("business rule violated")
	// ErrAuthorization signals the caller has no rights over the specific resource.
	ErrAuthorization = errors.New("not authorized")
	// ErrInvalidInput signals a malformed request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict signals a uniqueness or idempotency clash with stored state.
	ErrConflict = errors.New("conflict")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrInsufficientStock, "insufficient_stock"},
	{ErrInvalidState, "invalid_state"},
	{ErrLogic, "logic"},
	{ErrAuthorization, "authorization"},
	{ErrInvalidInput, "invalid_input"},
	{ErrConflict, "conflict"},
}

// Kind returns a stable label for the taxonomy entry err belongs to, or
// "internal" when it matches none.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

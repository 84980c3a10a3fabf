// Package errs defines the error taxonomy of the data layer: not-found,
// validation, referential-integrity, storage, and partial-completion
// failures. Handlers map these onto HTTP codes with errors.Is/As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an id that is absent on update/delete/get.
	ErrNotFound = errors.New("not_found")

	// ErrReferenced marks a delete blocked by an existing reference
	// (a category still used by at least one product).
	ErrReferenced = errors.New("referenced")
)

// NotFound wraps ErrNotFound with the entity kind and id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// ValidationError carries per-field violations. The operation it aborted
// performed no state change.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Violations)
}

// Validation builds a ValidationError for a single field.
func Validation(field, reason string) error {
	return &ValidationError{Violations: map[string]string{field: reason}}
}

// StorageError wraps a backend read/write/serialization failure.
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PartialCompletionError reports a sale completion that committed its first
// step(s) but failed a later one. Distinct from total failure: the sale
// record already exists and is not rolled back in best-effort mode.
type PartialCompletionError struct {
	SaleID    string
	Completed []string // steps that were durably written, in order
	Failed    string   // step that failed
	Err       error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("sale %s partially completed (done: %v, failed: %s): %v",
		e.SaleID, e.Completed, e.Failed, e.Err)
}

func (e *PartialCompletionError) Unwrap() error { return e.Err }

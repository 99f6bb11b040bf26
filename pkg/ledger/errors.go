package ledger

import (
	"errors"
	"fmt"
)

// Domain errors returned by Store methods, per spec §7's error-kind
// taxonomy. Callers should compare with errors.Is, since every returned
// error is wrapped with operation context.
var (
	// ErrNotFound is returned when a referenced subject or fact does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by AddSubjectWithID when the UUID is taken.
	ErrConflict = errors.New("conflict")

	// ErrAlreadySuperseded is returned when supersede or retract targets a
	// fact that already has a supersession.
	ErrAlreadySuperseded = errors.New("fact already superseded")

	// ErrAlreadyRetracted is returned when supersede or retract targets a
	// fact that already has a retraction.
	ErrAlreadyRetracted = errors.New("fact already retracted")

	// ErrSelfSupersession is returned when a replacement fact would
	// supersede itself. Supersede generates the replacement's id itself, so
	// this is only reachable if that fresh id equals the old fact's id.
	ErrSelfSupersession = errors.New("fact cannot supersede itself")
)

// storeError wraps an error with the operation that produced it, in the
// same style as the teacher's StoreError/wrapError (errors.go).
type storeError struct {
	Op  string
	Err error
}

func (e *storeError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("ledger: %v", e.Err)
	}
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *storeError) Unwrap() error { return e.Err }

func (e *storeError) Is(target error) bool { return errors.Is(e.Err, target) }

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storeError{Op: op, Err: err}
}

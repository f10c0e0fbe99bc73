package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// The controller's error taxonomy. Every kind is terminal for the current
// operation: checks run fully before any write, so a failed operation never
// commits a partial mutation.

// ErrNotFound means no such event exists under the named case.
var ErrNotFound = errors.New("event not found")

// ErrNotDraft means a mutation was attempted on a non-DRAFT event. FINAL is
// a one-way transition.
var ErrNotDraft = errors.New("only DRAFT events can be modified")

// BadRequestError reports malformed or wrong-typed caller input.
type BadRequestError struct {
	Msg string
}

func (e *BadRequestError) Error() string { return e.Msg }

func badRequest(format string, args ...any) error {
	return &BadRequestError{Msg: fmt.Sprintf(format, args...)}
}

// MissingFieldsError blocks finalize while required fields are unfilled.
// Distinct from a validation failure so callers can render "fill in X"
// rather than "X is invalid".
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

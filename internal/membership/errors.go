// internal/membership/errors.go
package membership

import (
	"errors"
	"strings"
)

var (
	// ErrMemberNotFound is returned when an operation references an id that
	// is not in the collection.
	ErrMemberNotFound = errors.New("member not found")
	// ErrMissingID is returned by Update when the patch carries no id.
	ErrMissingID = errors.New("member id is required")
)

// ValidationError reports every rule a candidate member failed.
type ValidationError struct {
	Problems []string `json:"errors"`
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Problems returns the validation messages carried by err, or nil when err
// is not a validation failure.
func Problems(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}

// Outcome distinguishes a real deletion from a delete of an unknown id.
type Outcome string

const (
	OutcomeDeleted Outcome = "deleted"
	OutcomeNoOp    Outcome = "noop"
)

// DeleteResult is returned by Delete. Member is only set when Outcome is
// OutcomeDeleted.
type DeleteResult struct {
	Outcome Outcome `json:"outcome"`
	Member  *Member `json:"member,omitempty"`
}

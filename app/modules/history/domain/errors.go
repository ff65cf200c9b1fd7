package historydomain

import (
	"errors"
	"strings"
)

var (
	// ErrNoScoresRecorded rejects completion of a round nobody has scored.
	ErrNoScoresRecorded = errors.New("no scores recorded")
	// ErrMinimumDrivesUnmet rejects a scramble where a player has used fewer
	// drives than the round minimum.
	ErrMinimumDrivesUnmet = errors.New("minimum drives not met")
	// ErrTotalsMismatch means stored totals differ from a recomputation of the
	// stored score line.
	ErrTotalsMismatch = errors.New("stored totals do not match score line")
)

// ValidationError blocks the completion of a round. Conditions lists what
// must be corrected before completing again.
type ValidationError struct {
	Err        error
	Conditions []string
}

func (e *ValidationError) Error() string {
	if len(e.Conditions) == 0 {
		return "round cannot be completed: " + e.Err.Error()
	}
	return "round cannot be completed: " + e.Err.Error() + " (" + strings.Join(e.Conditions, ", ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Err }

package scorecardservice

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Black-And-White-Club/golf-scorecard/internal/breaker"
)

var (
	// ErrBreakerOpen is returned while remote calls are short-circuited.
	ErrBreakerOpen = breaker.ErrOpen
	// ErrNoRemoteStore means the gateway runs without a remote store and every
	// card is offline.
	ErrNoRemoteStore = errors.New("remote store not configured")
)

// TransientPersistenceError is a remote failure that does not invalidate
// the round.
type TransientPersistenceError struct {
	Op          string
	ScorecardID string
	Err         error
}

func (e *TransientPersistenceError) Error() string {
	if e.ScorecardID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed for scorecard %s: %v", e.Op, e.ScorecardID, e.Err)
}

func (e *TransientPersistenceError) Unwrap() error { return e.Err }

// CompletionError lists the scorecards that could not be marked complete,
// keyed by player id.
type CompletionError struct {
	Failed map[string]error
}

func (e *CompletionError) Error() string {
	players := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		players = append(players, id)
	}
	sort.Strings(players)

	parts := make([]string, 0, len(players))
	for _, id := range players {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e.Failed[id]))
	}
	return "failed to complete scorecards: " + strings.Join(parts, "; ")
}

func (e *CompletionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

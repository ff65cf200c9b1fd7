package roundservice

import (
	"errors"
	"fmt"
)

var (
	// ErrRoundAlreadyStarted is returned when Start is called twice.
	ErrRoundAlreadyStarted = errors.New("round has already started")

	// ErrRoundNotActive is returned for play operations outside the active state.
	ErrRoundNotActive = errors.New("round is not active")

	// ErrRoundNotCompleted is returned when retrying history before completion.
	ErrRoundNotCompleted = errors.New("round is not completed")

	// ErrInvalidHole indicates a hole number outside 1-18.
	ErrInvalidHole = errors.New("invalid hole number")

	// ErrScoreOutOfRange indicates a gross score outside the accepted range.
	ErrScoreOutOfRange = errors.New("score out of range")

	// ErrUnknownCompetitor indicates a score for someone not in the round.
	ErrUnknownCompetitor = errors.New("unknown competitor")

	// ErrDriveNotInTeam indicates a drive credited to a player outside the team.
	ErrDriveNotInTeam = errors.New("drive player is not on the team")

	// ErrHistoryUnavailable is recorded against every record when no history
	// store is configured.
	ErrHistoryUnavailable = errors.New("history store not configured")
)

// Start validation failures, wrapped in *StartError.
var (
	ErrNoPlayers              = errors.New("at least one player is required")
	ErrDuplicatePlayer        = errors.New("duplicate player")
	ErrNoFormats              = errors.New("at least one scoring format is required")
	ErrConflictingTeamFormats = errors.New("scramble and team match play cannot be combined")
	ErrInvalidTeams           = errors.New("invalid team composition")
	ErrCourseUnavailable      = errors.New("course tee unavailable")
)

// StartError rejects a round before it begins.
type StartError struct {
	Err    error
	Detail string
}

func (e *StartError) Error() string {
	if e.Detail == "" {
		return "cannot start round: " + e.Err.Error()
	}
	return fmt.Sprintf("cannot start round: %v: %s", e.Err, e.Detail)
}

func (e *StartError) Unwrap() error { return e.Err }

func startErr(err error, format string, args ...any) *StartError {
	return &StartError{Err: err, Detail: fmt.Sprintf(format, args...)}
}

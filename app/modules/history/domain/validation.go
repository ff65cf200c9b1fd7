package historydomain

import (
	"fmt"
	"slices"

	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

// CompletionInput is what pre-completion validation looks at.
type CompletionInput struct {
	Formats            []scoringdomain.Format
	Players            []rounddomain.Player
	Lines              map[string]scoringdomain.ScoreLine
	DriveCounts        map[string]int
	MinDrivesPerPlayer int
}

// ValidateCompletion returns a *ValidationError when the round may not be
// completed yet.
func ValidateCompletion(in CompletionInput) error {
	scored := false
	for _, line := range in.Lines {
		if line.HolesPlayed() > 0 {
			scored = true
			break
		}
	}
	if !scored {
		return &ValidationError{Err: ErrNoScoresRecorded}
	}

	if in.MinDrivesPerPlayer <= 0 || !slices.Contains(in.Formats, scoringdomain.FormatScramble) {
		return nil
	}

	var short []string
	for _, p := range in.Players {
		used := in.DriveCounts[p.ID]
		if used < in.MinDrivesPerPlayer {
			short = append(short, fmt.Sprintf("%s: %d/%d drives", p.Name, used, in.MinDrivesPerPlayer))
		}
	}
	if len(short) > 0 {
		return &ValidationError{Err: ErrMinimumDrivesUnmet, Conditions: short}
	}
	return nil
}

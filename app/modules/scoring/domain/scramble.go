package scoringdomain

import "errors"

var (
	ErrNoTeamScore            = errors.New("no team score recorded")
	ErrScrambleScoresDiverged = errors.New("scramble team members hold different scores")
)

// ScrambleTeamScore returns the single shared score of a scramble team on a
// hole, given each member's cached value (0 for missing). All members must
// hold the same value; no member's score is ever preferred over another's.
func ScrambleTeamScore(memberScores []int) (int, error) {
	shared := 0
	for _, s := range memberScores {
		switch {
		case s == 0:
			continue
		case shared == 0:
			shared = s
		case s != shared:
			return 0, ErrScrambleScoresDiverged
		}
	}
	if shared == 0 {
		return 0, ErrNoTeamScore
	}
	for _, s := range memberScores {
		if s == 0 {
			return 0, ErrScrambleScoresDiverged
		}
	}
	return shared, nil
}

package rounddomain

import (
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

// ScoreCache is the single source of truth for gross scores in a round,
// keyed by player then hole. Entries are overwritten, never deleted.
// It is not safe for concurrent use; the session serializes access.
type ScoreCache struct {
	scores map[string]map[int]int
}

func NewScoreCache() *ScoreCache {
	return &ScoreCache{scores: make(map[string]map[int]int)}
}

// Set stores gross for (player, hole), replacing any earlier value.
func (c *ScoreCache) Set(playerID string, hole, gross int) {
	holes, ok := c.scores[playerID]
	if !ok {
		holes = make(map[int]int)
		c.scores[playerID] = holes
	}
	holes[hole] = gross
}

func (c *ScoreCache) Get(playerID string, hole int) (int, bool) {
	gross, ok := c.scores[playerID][hole]
	return gross, ok
}

// Line returns a player's scores as a hole-indexed line.
func (c *ScoreCache) Line(playerID string) scoringdomain.ScoreLine {
	var line scoringdomain.ScoreLine
	for hole, gross := range c.scores[playerID] {
		if hole >= 1 && hole <= len(line) {
			line[hole-1] = gross
		}
	}
	return line
}

func (c *ScoreCache) HolesPlayed(playerID string) int {
	return len(c.scores[playerID])
}

// Empty reports whether no score has been recorded for anyone.
func (c *ScoreCache) Empty() bool {
	for _, holes := range c.scores {
		if len(holes) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (c *ScoreCache) Clone() *ScoreCache {
	out := NewScoreCache()
	for playerID, holes := range c.scores {
		copied := make(map[int]int, len(holes))
		for hole, gross := range holes {
			copied[hole] = gross
		}
		out.scores[playerID] = copied
	}
	return out
}

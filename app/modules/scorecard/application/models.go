package scorecardservice

import "strings"

// OfflinePrefix marks scorecard ids that only exist on this device.
const OfflinePrefix = "local_"

// IsOffline reports whether id was issued locally.
func IsOffline(id string) bool {
	return strings.HasPrefix(id, OfflinePrefix)
}

// Mode is the persistence mode of a round.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// CardRequest asks for one player's scorecard.
type CardRequest struct {
	PlayerID string
	Handicap float64
}

// CreateRequest asks for every scorecard of a round.
type CreateRequest struct {
	RoundID string
	EventID string
	Players []CardRequest
}

// Card ties a player to a scorecard id.
type Card struct {
	PlayerID    string `json:"player_id"`
	ScorecardID string `json:"scorecard_id"`
}

func (c Card) Offline() bool { return IsOffline(c.ScorecardID) }

// Roster is the set of cards for a round. Either every card is online or
// every card is offline.
type Roster struct {
	Mode          Mode   `json:"mode"`
	Cards         []Card `json:"cards"`
	FallbackCause error  `json:"-"`
}

// Card returns the card for a player.
func (r Roster) Card(playerID string) (Card, bool) {
	for _, c := range r.Cards {
		if c.PlayerID == playerID {
			return c, true
		}
	}
	return Card{}, false
}

// ScoreWrite is one versioned hole write.
type ScoreWrite struct {
	RoundID     string `json:"round_id"`
	PlayerID    string `json:"player_id"`
	ScorecardID string `json:"scorecard_id"`
	Hole        int    `json:"hole"`
	Gross       int    `json:"gross"`
	Version     int64  `json:"version"`
}

// WriteFailure is a score write that exhausted its retries.
type WriteFailure struct {
	Write ScoreWrite
	Err   error
}

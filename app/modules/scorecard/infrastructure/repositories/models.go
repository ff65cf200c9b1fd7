package scorecarddb

import (
	"time"

	"github.com/uptrace/bun"
)

// ScorecardRow is one player's card for a round.
type ScorecardRow struct {
	bun.BaseModel `bun:"table:scorecards,alias:sc"`

	ID          string     `bun:"id,pk"`
	EventID     string     `bun:"event_id,notnull"`
	PlayerID    string     `bun:"player_id,notnull"`
	Handicap    float64    `bun:"handicap,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	CompletedAt *time.Time `bun:"completed_at,nullzero"`
}

// ScoreRow is the latest gross written for a hole. Version orders writes.
type ScoreRow struct {
	bun.BaseModel `bun:"table:scorecard_scores,alias:ss"`

	ScorecardID string    `bun:"scorecard_id,pk"`
	Hole        int       `bun:"hole,pk"`
	Gross       int       `bun:"gross,notnull"`
	Version     int64     `bun:"version,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

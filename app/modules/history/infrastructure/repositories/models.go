package historydb

import (
	"time"

	"github.com/uptrace/bun"
)

// TeamMatchColumn is the stored team match margin.
type TeamMatchColumn struct {
	TeamID  string `json:"team_id"`
	Front9  int    `json:"front9"`
	Back9   int    `json:"back9"`
	Overall int    `json:"overall"`
}

// RecordRow is one archived player round. Rows are never updated.
type RecordRow struct {
	bun.BaseModel `bun:"table:history_records,alias:hr"`

	ID           string           `bun:"id,pk"`
	RoundID      string           `bun:"round_id,notnull"`
	PlayerID     string           `bun:"player_id,notnull"`
	PlayerName   string           `bun:"player_name,notnull"`
	AccountID    string           `bun:"account_id,notnull"`
	CourseID     string           `bun:"course_id,notnull"`
	Tee          string           `bun:"tee,notnull"`
	Formats      []string         `bun:"formats,type:jsonb,notnull"`
	Handicap     float64          `bun:"handicap,notnull"`
	HandicapUsed float64          `bun:"handicap_used,notnull"`
	TeamHandicap *int             `bun:"team_handicap,nullzero"`
	Line         []int            `bun:"line,type:jsonb,notnull"`
	Gross        int              `bun:"gross,notnull"`
	Net          int              `bun:"net,notnull"`
	Stableford   int              `bun:"stableford,notnull"`
	HolesPlayed  int              `bun:"holes_played,notnull"`
	HolesWon     *int             `bun:"holes_won,nullzero"`
	TeamMatch    *TeamMatchColumn `bun:"team_match,type:jsonb,nullzero"`
	PlayedAt     time.Time        `bun:"played_at,notnull"`
	CreatedAt    time.Time        `bun:"created_at,notnull,default:current_timestamp"`
}

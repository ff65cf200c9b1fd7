package playerdb

import (
	"time"

	"github.com/uptrace/bun"
)

// PlayerRow is a golfer profile with the current handicap index.
type PlayerRow struct {
	bun.BaseModel `bun:"table:players,alias:pl"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Handicap  float64   `bun:"handicap,notnull"`
	AccountID *string   `bun:"account_id,nullzero"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

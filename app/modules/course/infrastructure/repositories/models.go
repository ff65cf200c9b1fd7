package coursedb

import (
	"time"

	"github.com/uptrace/bun"
)

// HoleRow is one hole of a course tee.
type HoleRow struct {
	bun.BaseModel `bun:"table:course_holes,alias:ch"`

	CourseID    string    `bun:"course_id,pk"`
	Tee         string    `bun:"tee,pk"`
	Number      int       `bun:"number,pk"`
	Par         int       `bun:"par,notnull"`
	StrokeIndex int       `bun:"stroke_index,notnull"`
	Yardage     int       `bun:"yardage,notnull,default:0"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

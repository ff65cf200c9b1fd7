package coursedb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for course hole persistence.
type Repository interface {
	// GetHoles returns the holes of a tee ordered by number.
	GetHoles(ctx context.Context, db bun.IDB, courseID, tee string) ([]HoleRow, error)

	// UpsertHoles creates or replaces hole rows.
	UpsertHoles(ctx context.Context, db bun.IDB, rows []HoleRow) error
}

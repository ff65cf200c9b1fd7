package coursedb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a course tee has no holes.
var ErrNotFound = errors.New("course tee not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new course repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetHoles retrieves every hole of a tee.
func (r *Impl) GetHoles(ctx context.Context, db bun.IDB, courseID, tee string) ([]HoleRow, error) {
	db = r.resolveDB(db)
	var rows []HoleRow
	err := db.NewSelect().
		Model(&rows).
		Where("course_id = ?", courseID).
		Where("tee = ?", tee).
		Order("number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get course holes: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

// UpsertHoles writes hole rows, replacing existing values.
func (r *Impl) UpsertHoles(ctx context.Context, db bun.IDB, rows []HoleRow) error {
	if len(rows) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now()
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (course_id, tee, number) DO UPDATE").
		Set("par = EXCLUDED.par").
		Set("stroke_index = EXCLUDED.stroke_index").
		Set("yardage = EXCLUDED.yardage").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert course holes: %w", err)
	}
	return nil
}

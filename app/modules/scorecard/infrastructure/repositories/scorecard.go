package scorecarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a scorecard does not exist.
var ErrNotFound = errors.New("scorecard not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new scorecard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateScorecard(ctx context.Context, db bun.IDB, row *ScorecardRow) error {
	db = r.resolveDB(db)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create scorecard: %w", err)
	}
	return nil
}

func (r *Impl) GetScorecard(ctx context.Context, db bun.IDB, id string) (*ScorecardRow, error) {
	db = r.resolveDB(db)
	row := new(ScorecardRow)
	err := db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scorecard: %w", err)
	}
	return row, nil
}

func (r *Impl) UpsertScore(ctx context.Context, db bun.IDB, row *ScoreRow) (bool, error) {
	db = r.resolveDB(db)
	row.UpdatedAt = time.Now().UTC()
	res, err := db.NewInsert().
		Model(row).
		On("CONFLICT (scorecard_id, hole) DO UPDATE").
		Set("gross = EXCLUDED.gross").
		Set("version = EXCLUDED.version").
		Set("updated_at = EXCLUDED.updated_at").
		Where("ss.version < EXCLUDED.version").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to upsert score for hole %d: %w", row.Hole, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read upsert result: %w", err)
	}
	return n > 0, nil
}

func (r *Impl) GetScores(ctx context.Context, db bun.IDB, scorecardID string) ([]ScoreRow, error) {
	db = r.resolveDB(db)
	var rows []ScoreRow
	err := db.NewSelect().
		Model(&rows).
		Where("scorecard_id = ?", scorecardID).
		Order("hole ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}
	return rows, nil
}

// MarkComplete stamps completed_at once. Marking twice keeps the first stamp.
func (r *Impl) MarkComplete(ctx context.Context, db bun.IDB, id string) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*ScorecardRow)(nil)).
		Set("completed_at = COALESCE(completed_at, ?)", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark scorecard complete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

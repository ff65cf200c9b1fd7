package scorecarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for scorecard persistence.
type Repository interface {
	CreateScorecard(ctx context.Context, db bun.IDB, row *ScorecardRow) error
	GetScorecard(ctx context.Context, db bun.IDB, id string) (*ScorecardRow, error)

	// UpsertScore stores a hole score unless a newer version is already
	// stored. It reports whether the row was written.
	UpsertScore(ctx context.Context, db bun.IDB, row *ScoreRow) (bool, error)
	GetScores(ctx context.Context, db bun.IDB, scorecardID string) ([]ScoreRow, error)

	MarkComplete(ctx context.Context, db bun.IDB, id string) error
}

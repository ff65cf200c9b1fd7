package scorecarddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store exposes the repository as the gateway's remote store.
type Store struct {
	repo Repository
}

func NewStore(db bun.IDB) *Store {
	return &Store{repo: NewRepository(db)}
}

func (s *Store) Create(ctx context.Context, eventID, playerID string, handicap float64) (string, error) {
	row := &ScorecardRow{
		ID:       uuid.NewString(),
		EventID:  eventID,
		PlayerID: playerID,
		Handicap: handicap,
	}
	if err := s.repo.CreateScorecard(ctx, nil, row); err != nil {
		return "", err
	}
	return row.ID, nil
}

func (s *Store) SaveScore(ctx context.Context, scorecardID string, hole, gross int, version int64) error {
	_, err := s.repo.UpsertScore(ctx, nil, &ScoreRow{
		ScorecardID: scorecardID,
		Hole:        hole,
		Gross:       gross,
		Version:     version,
	})
	return err
}

func (s *Store) MarkComplete(ctx context.Context, scorecardID string) error {
	return s.repo.MarkComplete(ctx, nil, scorecardID)
}

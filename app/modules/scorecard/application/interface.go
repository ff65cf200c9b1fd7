package scorecardservice

import (
	"context"
)

// RemoteStore is the remote scorecard store.
type RemoteStore interface {
	Create(ctx context.Context, eventID, playerID string, handicap float64) (string, error)
	SaveScore(ctx context.Context, scorecardID string, hole, gross int, version int64) error
	MarkComplete(ctx context.Context, scorecardID string) error
}

// WriteQueue hands score writes to a durable background queue.
type WriteQueue interface {
	EnqueueScoreWrite(ctx context.Context, w ScoreWrite) error
}

// Service is the persistence gateway used by a round session.
type Service interface {
	CreateScorecards(ctx context.Context, req CreateRequest) Roster
	SaveScore(ctx context.Context, card Card, hole, gross int)
	Flush(ctx context.Context) error
	MarkComplete(ctx context.Context, cards []Card) error
	OnWriteFailure(fn func(WriteFailure))
	Close()
}

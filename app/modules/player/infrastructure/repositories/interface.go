package playerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for player profile persistence.
type Repository interface {
	GetPlayers(ctx context.Context, db bun.IDB, ids []string) ([]PlayerRow, error)
	UpsertPlayer(ctx context.Context, db bun.IDB, row *PlayerRow) error
}

package historydb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the append-only history store.
type Repository interface {
	// Append writes one record for playerID. Appending the same round for the
	// same player again is a no-op.
	Append(ctx context.Context, db bun.IDB, playerID string, row *RecordRow) error

	// ListByAccount returns an account's rounds, newest first.
	ListByAccount(ctx context.Context, db bun.IDB, accountID string, limit int) ([]RecordRow, error)
}

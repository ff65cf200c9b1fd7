package historydb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new history repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Append(ctx context.Context, db bun.IDB, playerID string, row *RecordRow) error {
	db = r.resolveDB(db)
	row.PlayerID = playerID
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (round_id, player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append history record for player %s: %w", playerID, err)
	}
	return nil
}

func (r *Impl) ListByAccount(ctx context.Context, db bun.IDB, accountID string, limit int) ([]RecordRow, error) {
	db = r.resolveDB(db)
	if limit <= 0 {
		limit = 50
	}
	var rows []RecordRow
	err := db.NewSelect().
		Model(&rows).
		Where("account_id = ?", accountID).
		Order("played_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history for account %s: %w", accountID, err)
	}
	return rows, nil
}

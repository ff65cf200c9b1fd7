package playerdb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetPlayers returns the players with the given ids. Unknown ids are
// silently absent from the result.
func (r *Impl) GetPlayers(ctx context.Context, db bun.IDB, ids []string) ([]PlayerRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var rows []PlayerRow
	err := db.NewSelect().
		Model(&rows).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	return rows, nil
}

func (r *Impl) UpsertPlayer(ctx context.Context, db bun.IDB, row *PlayerRow) error {
	db = r.resolveDB(db)
	row.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("handicap = EXCLUDED.handicap").
		Set("account_id = EXCLUDED.account_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", row.ID, err)
	}
	return nil
}

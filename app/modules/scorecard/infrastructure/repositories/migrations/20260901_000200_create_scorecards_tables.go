package scorecardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scorecards and scorecard_scores tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS scorecards (
					id UUID PRIMARY KEY,
					event_id VARCHAR(64) NOT NULL,
					player_id VARCHAR(64) NOT NULL,
					handicap DOUBLE PRECISION NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					completed_at TIMESTAMPTZ
				);
			`); err != nil {
				return fmt.Errorf("failed to create scorecards table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS scorecard_scores (
					scorecard_id UUID NOT NULL REFERENCES scorecards(id) ON DELETE CASCADE,
					hole SMALLINT NOT NULL CHECK (hole BETWEEN 1 AND 18),
					gross SMALLINT NOT NULL CHECK (gross BETWEEN 1 AND 15),
					version BIGINT NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (scorecard_id, hole)
				);
			`); err != nil {
				return fmt.Errorf("failed to create scorecard_scores table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_scorecards_event ON scorecards (event_id);
			`); err != nil {
				return fmt.Errorf("failed to create scorecards index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scorecard tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS scorecard_scores; DROP TABLE IF EXISTS scorecards;`); err != nil {
				return fmt.Errorf("failed to drop scorecard tables: %w", err)
			}
			return nil
		})
	})
}

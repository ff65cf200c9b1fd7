package historymigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating history_records table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS history_records (
					id UUID PRIMARY KEY,
					round_id VARCHAR(64) NOT NULL,
					player_id VARCHAR(64) NOT NULL,
					player_name TEXT NOT NULL,
					account_id VARCHAR(128) NOT NULL,
					course_id VARCHAR(64) NOT NULL,
					tee VARCHAR(32) NOT NULL,
					formats JSONB NOT NULL,
					handicap DOUBLE PRECISION NOT NULL,
					handicap_used DOUBLE PRECISION NOT NULL,
					team_handicap INTEGER,
					line JSONB NOT NULL,
					gross INTEGER NOT NULL,
					net INTEGER NOT NULL,
					stableford INTEGER NOT NULL,
					holes_played SMALLINT NOT NULL,
					holes_won SMALLINT,
					team_match JSONB,
					played_at TIMESTAMPTZ NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (round_id, player_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create history_records table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_history_records_account_played
				ON history_records (account_id, played_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create history_records index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping history_records table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS history_records;`); err != nil {
				return fmt.Errorf("failed to drop history_records table: %w", err)
			}
			return nil
		})
	})
}

package coursemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating course_holes table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS course_holes (
					course_id VARCHAR(64) NOT NULL,
					tee VARCHAR(32) NOT NULL,
					number SMALLINT NOT NULL CHECK (number BETWEEN 1 AND 18),
					par SMALLINT NOT NULL CHECK (par BETWEEN 3 AND 5),
					stroke_index SMALLINT NOT NULL CHECK (stroke_index BETWEEN 1 AND 18),
					yardage INTEGER NOT NULL DEFAULT 0,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (course_id, tee, number),
					UNIQUE (course_id, tee, stroke_index) DEFERRABLE INITIALLY DEFERRED
				);
			`); err != nil {
				return fmt.Errorf("failed to create course_holes table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping course_holes table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS course_holes;`); err != nil {
				return fmt.Errorf("failed to drop course_holes table: %w", err)
			}
			return nil
		})
	})
}

package scorecardqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/riverqueue/river"
)

// ScoreWriteWorker applies queued score writes. Older versions lose to newer
// ones in the store, so retried jobs cannot clobber a later correction.
type ScoreWriteWorker struct {
	river.WorkerDefaults[ScoreWriteJob]
	store   scorecardservice.RemoteStore
	logger  *slog.Logger
	timeout time.Duration
}

func NewScoreWriteWorker(store scorecardservice.RemoteStore, logger *slog.Logger, timeout time.Duration) *ScoreWriteWorker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ScoreWriteWorker{store: store, logger: logger, timeout: timeout}
}

func (w *ScoreWriteWorker) Timeout(*river.Job[ScoreWriteJob]) time.Duration {
	return w.timeout
}

func (w *ScoreWriteWorker) Work(ctx context.Context, job *river.Job[ScoreWriteJob]) error {
	args := job.Args
	if err := w.store.SaveScore(ctx, args.ScorecardID, args.Hole, args.Gross, args.Version); err != nil {
		w.logger.WarnContext(ctx, "Queued score write failed",
			attr.ScorecardID(args.ScorecardID),
			attr.Hole(args.Hole),
			attr.Int("attempt", job.Attempt),
			attr.Error(err),
		)
		return fmt.Errorf("failed to save score: %w", err)
	}

	w.logger.DebugContext(ctx, "Queued score write applied",
		attr.ScorecardID(args.ScorecardID),
		attr.Hole(args.Hole),
		attr.Int64("version", args.Version),
	)
	return nil
}

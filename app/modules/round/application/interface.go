package roundservice

import (
	"context"
	"io"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
)

// TeeSource resolves a course tee layout.
type TeeSource interface {
	GetTee(ctx context.Context, courseID, tee string) (*coursedomain.Tee, error)
}

// Service is a live round.
type Service interface {
	ID() string
	State() rounddomain.State
	Start(ctx context.Context, req StartRequest) error
	EnterScore(ctx context.Context, in ScoreInput) error
	AdvanceHole() error
	GoToHole(hole int) error
	Complete(ctx context.Context) (CompletionReport, error)
	RetryHistory(ctx context.Context) (CompletionReport, error)
	Abandon() error
	Snapshot() Snapshot
	Leaderboard() leaderboarddomain.Standings
	Export(w io.Writer) error
	ReportWriteFailure(f scorecardservice.WriteFailure)
}

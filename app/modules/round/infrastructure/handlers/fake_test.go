package roundhandlers

import (
	"context"
	"io"
	"sync"

	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	playerservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/application"
	roundservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
)

// FakeSession is a round whose behaviour is set per test. Start moves it to
// active unless StartFunc says otherwise.
type FakeSession struct {
	mu       sync.Mutex
	id       string
	state    rounddomain.State
	started  roundservice.StartRequest
	failures []scorecardservice.WriteFailure

	StartFunc        func(ctx context.Context, req roundservice.StartRequest) error
	EnterScoreFunc   func(ctx context.Context, in roundservice.ScoreInput) error
	AdvanceHoleFunc  func() error
	GoToHoleFunc     func(hole int) error
	CompleteFunc     func(ctx context.Context) (roundservice.CompletionReport, error)
	RetryHistoryFunc func(ctx context.Context) (roundservice.CompletionReport, error)
	ExportFunc       func(w io.Writer) error
}

func NewFakeSession() *FakeSession {
	return &FakeSession{state: rounddomain.StateNotStarted}
}

func (f *FakeSession) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *FakeSession) State() rounddomain.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *FakeSession) SetState(s rounddomain.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

func (f *FakeSession) Start(ctx context.Context, req roundservice.StartRequest) error {
	if f.StartFunc != nil {
		if err := f.StartFunc(ctx, req); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.id = req.RoundID
	f.started = req
	f.state = rounddomain.StateActive
	return nil
}

func (f *FakeSession) EnterScore(ctx context.Context, in roundservice.ScoreInput) error {
	if f.EnterScoreFunc != nil {
		return f.EnterScoreFunc(ctx, in)
	}
	return nil
}

func (f *FakeSession) AdvanceHole() error {
	if f.AdvanceHoleFunc != nil {
		return f.AdvanceHoleFunc()
	}
	return nil
}

func (f *FakeSession) GoToHole(hole int) error {
	if f.GoToHoleFunc != nil {
		return f.GoToHoleFunc(hole)
	}
	return nil
}

func (f *FakeSession) Complete(ctx context.Context) (roundservice.CompletionReport, error) {
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx)
	}
	f.SetState(rounddomain.StateCompleted)
	return roundservice.CompletionReport{}, nil
}

func (f *FakeSession) RetryHistory(ctx context.Context) (roundservice.CompletionReport, error) {
	if f.RetryHistoryFunc != nil {
		return f.RetryHistoryFunc(ctx)
	}
	return roundservice.CompletionReport{}, nil
}

func (f *FakeSession) Abandon() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Terminal() {
		return nil
	}
	if f.state != rounddomain.StateActive {
		return roundservice.ErrRoundNotActive
	}
	f.state = rounddomain.StateAbandoned
	return nil
}

func (f *FakeSession) Snapshot() roundservice.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return roundservice.Snapshot{
		ID:      f.id,
		State:   f.state,
		Hole:    1,
		Players: f.started.Players,
	}
}

func (f *FakeSession) Leaderboard() leaderboarddomain.Standings {
	return leaderboarddomain.Standings{}
}

func (f *FakeSession) Export(w io.Writer) error {
	if f.ExportFunc != nil {
		return f.ExportFunc(w)
	}
	_, err := w.Write([]byte("PK"))
	return err
}

func (f *FakeSession) ReportWriteFailure(wf scorecardservice.WriteFailure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, wf)
}

func (f *FakeSession) Failures() []scorecardservice.WriteFailure {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scorecardservice.WriteFailure(nil), f.failures...)
}

var _ roundservice.Service = (*FakeSession)(nil)

type FakePlayerSource struct {
	GetPlayersFunc func(ctx context.Context, ids []string) ([]rounddomain.Player, error)
}

func (f *FakePlayerSource) GetPlayers(ctx context.Context, ids []string) ([]rounddomain.Player, error) {
	if f.GetPlayersFunc != nil {
		return f.GetPlayersFunc(ctx, ids)
	}
	players := make([]rounddomain.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, rounddomain.Player{ID: id, Name: id})
	}
	return players, nil
}

var _ playerservice.PlayerSource = (*FakePlayerSource)(nil)

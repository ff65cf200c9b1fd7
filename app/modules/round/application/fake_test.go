package roundservice

import (
	"context"
	"fmt"
	"sync"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	historyservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/application"
	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
)

type FakeTeeSource struct {
	GetTeeFunc func(ctx context.Context, courseID, tee string) (*coursedomain.Tee, error)
}

func (f *FakeTeeSource) GetTee(ctx context.Context, courseID, tee string) (*coursedomain.Tee, error) {
	if f.GetTeeFunc != nil {
		return f.GetTeeFunc(ctx, courseID, tee)
	}
	return nil, fmt.Errorf("tee %s/%s not found", courseID, tee)
}

var _ TeeSource = (*FakeTeeSource)(nil)

type FakeGateway struct {
	mu        sync.Mutex
	trace     []string
	saves     []scorecardservice.ScoreWrite
	completed []scorecardservice.Card
	onFailure func(scorecardservice.WriteFailure)

	CreateScorecardsFunc func(ctx context.Context, req scorecardservice.CreateRequest) scorecardservice.Roster
	FlushFunc            func(ctx context.Context) error
	MarkCompleteFunc     func(ctx context.Context, cards []scorecardservice.Card) error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{trace: []string{}}
}

func (f *FakeGateway) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeGateway) CreateScorecards(ctx context.Context, req scorecardservice.CreateRequest) scorecardservice.Roster {
	f.record("CreateScorecards")
	if f.CreateScorecardsFunc != nil {
		return f.CreateScorecardsFunc(ctx, req)
	}
	roster := scorecardservice.Roster{Mode: scorecardservice.ModeOnline}
	for _, p := range req.Players {
		roster.Cards = append(roster.Cards, scorecardservice.Card{PlayerID: p.PlayerID, ScorecardID: "card-" + p.PlayerID})
	}
	return roster
}

func (f *FakeGateway) SaveScore(_ context.Context, card scorecardservice.Card, hole, gross int) {
	f.record("SaveScore:" + card.ScorecardID)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, scorecardservice.ScoreWrite{
		PlayerID:    card.PlayerID,
		ScorecardID: card.ScorecardID,
		Hole:        hole,
		Gross:       gross,
	})
}

func (f *FakeGateway) Flush(ctx context.Context) error {
	f.record("Flush")
	if f.FlushFunc != nil {
		return f.FlushFunc(ctx)
	}
	return nil
}

func (f *FakeGateway) MarkComplete(ctx context.Context, cards []scorecardservice.Card) error {
	f.record("MarkComplete")
	f.mu.Lock()
	f.completed = append(f.completed, cards...)
	f.mu.Unlock()
	if f.MarkCompleteFunc != nil {
		return f.MarkCompleteFunc(ctx, cards)
	}
	return nil
}

func (f *FakeGateway) OnWriteFailure(fn func(scorecardservice.WriteFailure)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onFailure = fn
}

func (f *FakeGateway) Close() {
	f.record("Close")
}

// Fail reports a write failure through the registered callback.
func (f *FakeGateway) Fail(w scorecardservice.WriteFailure) {
	f.mu.Lock()
	fn := f.onFailure
	f.mu.Unlock()
	if fn != nil {
		fn(w)
	}
}

func (f *FakeGateway) Saves() []scorecardservice.ScoreWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scorecardservice.ScoreWrite(nil), f.saves...)
}

func (f *FakeGateway) Completed() []scorecardservice.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scorecardservice.Card(nil), f.completed...)
}

func (f *FakeGateway) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

var _ scorecardservice.Service = (*FakeGateway)(nil)

type FakeHistory struct {
	mu      sync.Mutex
	records [][]historydomain.Record

	RecordFunc func(ctx context.Context, records []historydomain.Record) historyservice.Report
	RetryFunc  func(ctx context.Context, failed []historyservice.FailedRecord) historyservice.Report
}

func (f *FakeHistory) Record(ctx context.Context, records []historydomain.Record) historyservice.Report {
	f.mu.Lock()
	f.records = append(f.records, records)
	f.mu.Unlock()
	if f.RecordFunc != nil {
		return f.RecordFunc(ctx, records)
	}
	return historyservice.Report{Saved: records}
}

func (f *FakeHistory) Retry(ctx context.Context, failed []historyservice.FailedRecord) historyservice.Report {
	if f.RetryFunc != nil {
		return f.RetryFunc(ctx, failed)
	}
	var r historyservice.Report
	for _, fr := range failed {
		r.Saved = append(r.Saved, fr.Record)
	}
	return r
}

func (f *FakeHistory) ListForAccount(context.Context, string, int) ([]historydomain.Record, error) {
	return nil, nil
}

func (f *FakeHistory) Batches() [][]historydomain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]historydomain.Record(nil), f.records...)
}

var _ historyservice.Service = (*FakeHistory)(nil)

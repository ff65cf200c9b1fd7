package scorecardservice

import (
	"context"
	"sync"
)

type FakeRemoteStore struct {
	mu    sync.Mutex
	trace []string

	CreateFunc       func(ctx context.Context, eventID, playerID string, handicap float64) (string, error)
	SaveScoreFunc    func(ctx context.Context, scorecardID string, hole, gross int, version int64) error
	MarkCompleteFunc func(ctx context.Context, scorecardID string) error
}

func NewFakeRemoteStore() *FakeRemoteStore {
	return &FakeRemoteStore{trace: []string{}}
}

func (f *FakeRemoteStore) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRemoteStore) Create(ctx context.Context, eventID, playerID string, handicap float64) (string, error) {
	f.record("Create:" + playerID)
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, eventID, playerID, handicap)
	}
	return "card-" + playerID, nil
}

func (f *FakeRemoteStore) SaveScore(ctx context.Context, scorecardID string, hole, gross int, version int64) error {
	f.record("SaveScore:" + scorecardID)
	if f.SaveScoreFunc != nil {
		return f.SaveScoreFunc(ctx, scorecardID, hole, gross, version)
	}
	return nil
}

func (f *FakeRemoteStore) MarkComplete(ctx context.Context, scorecardID string) error {
	f.record("MarkComplete:" + scorecardID)
	if f.MarkCompleteFunc != nil {
		return f.MarkCompleteFunc(ctx, scorecardID)
	}
	return nil
}

func (f *FakeRemoteStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ RemoteStore = (*FakeRemoteStore)(nil)

type FakeWriteQueue struct {
	mu     sync.Mutex
	writes []ScoreWrite

	EnqueueFunc func(ctx context.Context, w ScoreWrite) error
}

func (f *FakeWriteQueue) EnqueueScoreWrite(ctx context.Context, w ScoreWrite) error {
	f.mu.Lock()
	f.writes = append(f.writes, w)
	f.mu.Unlock()
	if f.EnqueueFunc != nil {
		return f.EnqueueFunc(ctx, w)
	}
	return nil
}

func (f *FakeWriteQueue) Writes() []ScoreWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ScoreWrite(nil), f.writes...)
}

var _ WriteQueue = (*FakeWriteQueue)(nil)

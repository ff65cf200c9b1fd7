package historyservice

import (
	"context"

	historydb "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/infrastructure/repositories"
	"github.com/uptrace/bun"
)

type FakeHistoryRepo struct {
	trace []string

	AppendFunc        func(ctx context.Context, db bun.IDB, playerID string, row *historydb.RecordRow) error
	ListByAccountFunc func(ctx context.Context, db bun.IDB, accountID string, limit int) ([]historydb.RecordRow, error)
}

func NewFakeHistoryRepo() *FakeHistoryRepo {
	return &FakeHistoryRepo{trace: []string{}}
}

func (f *FakeHistoryRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeHistoryRepo) Append(ctx context.Context, db bun.IDB, playerID string, row *historydb.RecordRow) error {
	f.record("Append:" + playerID)
	if f.AppendFunc != nil {
		return f.AppendFunc(ctx, db, playerID, row)
	}
	return nil
}

func (f *FakeHistoryRepo) ListByAccount(ctx context.Context, db bun.IDB, accountID string, limit int) ([]historydb.RecordRow, error) {
	f.record("ListByAccount")
	if f.ListByAccountFunc != nil {
		return f.ListByAccountFunc(ctx, db, accountID, limit)
	}
	return nil, nil
}

func (f *FakeHistoryRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ historydb.Repository = (*FakeHistoryRepo)(nil)

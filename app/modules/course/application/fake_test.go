package courseservice

import (
	"context"

	coursedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories"
	"github.com/uptrace/bun"
)

type FakeCourseRepo struct {
	trace []string

	GetHolesFunc    func(ctx context.Context, db bun.IDB, courseID, tee string) ([]coursedb.HoleRow, error)
	UpsertHolesFunc func(ctx context.Context, db bun.IDB, rows []coursedb.HoleRow) error
}

func NewFakeCourseRepo() *FakeCourseRepo {
	return &FakeCourseRepo{trace: []string{}}
}

func (f *FakeCourseRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCourseRepo) GetHoles(ctx context.Context, db bun.IDB, courseID, tee string) ([]coursedb.HoleRow, error) {
	f.record("GetHoles")
	if f.GetHolesFunc != nil {
		return f.GetHolesFunc(ctx, db, courseID, tee)
	}
	return nil, coursedb.ErrNotFound
}

func (f *FakeCourseRepo) UpsertHoles(ctx context.Context, db bun.IDB, rows []coursedb.HoleRow) error {
	f.record("UpsertHoles")
	if f.UpsertHolesFunc != nil {
		return f.UpsertHolesFunc(ctx, db, rows)
	}
	return nil
}

func (f *FakeCourseRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ coursedb.Repository = (*FakeCourseRepo)(nil)

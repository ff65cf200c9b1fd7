package courseservice

import (
	"context"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
)

// Service resolves and seeds course tee layouts.
type Service interface {
	GetTee(ctx context.Context, courseID, tee string) (*coursedomain.Tee, error)
	ImportTee(ctx context.Context, tee *coursedomain.Tee) error
}

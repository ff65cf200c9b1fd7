package historyservice

import (
	"context"

	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
)

// Service archives completed rounds.
type Service interface {
	Record(ctx context.Context, records []historydomain.Record) Report
	Retry(ctx context.Context, failed []FailedRecord) Report
	ListForAccount(ctx context.Context, accountID string, limit int) ([]historydomain.Record, error)
}

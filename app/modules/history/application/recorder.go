package historyservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
	historydb "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "HistoryRecorder"

// FailedRecord is a record that could not be written, kept for a retry.
type FailedRecord struct {
	Record historydomain.Record
	Err    error
}

// Report is the outcome of a batch of history writes.
type Report struct {
	Saved  []historydomain.Record
	Failed []FailedRecord
}

// OK reports whether every record was written.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Recorder implements the Service interface.
type Recorder struct {
	repo    historydb.Repository
	logger  *slog.Logger
	metrics metrics.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewRecorder creates a new Recorder.
func NewRecorder(
	repo historydb.Repository,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

var _ Service = (*Recorder)(nil)

// Record appends each record in its own transaction so one failure does not
// block the others.
func (s *Recorder) Record(ctx context.Context, records []historydomain.Record) Report {
	var report Report
	for _, rec := range records {
		if err := s.appendOne(ctx, rec); err != nil {
			report.Failed = append(report.Failed, FailedRecord{Record: rec, Err: err})
			continue
		}
		report.Saved = append(report.Saved, rec)
	}

	s.logger.InfoContext(ctx, "History write finished",
		attr.ExtractCorrelationID(ctx),
		attr.Int("saved", len(report.Saved)),
		attr.Int("failed", len(report.Failed)),
	)
	return report
}

// Retry re-attempts failed records.
func (s *Recorder) Retry(ctx context.Context, failed []FailedRecord) Report {
	records := make([]historydomain.Record, 0, len(failed))
	for _, f := range failed {
		records = append(records, f.Record)
	}
	return s.Record(ctx, records)
}

func (s *Recorder) appendOne(ctx context.Context, rec historydomain.Record) error {
	appendTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
		row := toRow(rec)
		if err := s.repo.Append(ctx, db, rec.PlayerID, row); err != nil {
			return results.OperationResult[string, error]{}, err
		}
		return results.SuccessResult[string, error](row.ID), nil
	}

	_, err := withTelemetry(s, ctx, "AppendHistory", rec.RoundID+"/"+rec.PlayerID, func(ctx context.Context) (results.OperationResult[string, error], error) {
		return runInTx(s, ctx, appendTx)
	})
	return err
}

// ListForAccount returns an account's archived rounds.
func (s *Recorder) ListForAccount(ctx context.Context, accountID string, limit int) ([]historydomain.Record, error) {
	result, err := withTelemetry(s, ctx, "ListHistory", accountID, func(ctx context.Context) (results.OperationResult[[]historydomain.Record, error], error) {
		rows, err := s.repo.ListByAccount(ctx, nil, accountID, limit)
		if err != nil {
			return results.OperationResult[[]historydomain.Record, error]{}, err
		}
		out := make([]historydomain.Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, fromRow(row))
		}
		return results.SuccessResult[[]historydomain.Record, error](out), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func toRow(rec historydomain.Record) *historydb.RecordRow {
	formats := make([]string, 0, len(rec.Formats))
	for _, f := range rec.Formats {
		formats = append(formats, f.String())
	}
	row := &historydb.RecordRow{
		RoundID:      rec.RoundID,
		PlayerID:     rec.PlayerID,
		PlayerName:   rec.PlayerName,
		AccountID:    rec.AccountID,
		CourseID:     rec.CourseID,
		Tee:          rec.Tee,
		Formats:      formats,
		Handicap:     rec.Handicap,
		HandicapUsed: rec.HandicapUsed,
		TeamHandicap: rec.TeamHandicap,
		Line:         rec.Line.Slice(),
		Gross:        rec.Gross,
		Net:          rec.Net,
		Stableford:   rec.Stableford,
		HolesPlayed:  rec.HolesPlayed,
		HolesWon:     rec.HolesWon,
		PlayedAt:     rec.PlayedAt,
	}
	if tm := rec.TeamMatch; tm != nil {
		row.TeamMatch = &historydb.TeamMatchColumn{TeamID: tm.TeamID, Front9: tm.Front9, Back9: tm.Back9, Overall: tm.Overall}
	}
	return row
}

func fromRow(row historydb.RecordRow) historydomain.Record {
	formats := make([]scoringdomain.Format, 0, len(row.Formats))
	for _, f := range row.Formats {
		formats = append(formats, scoringdomain.Format(f))
	}
	rec := historydomain.Record{
		RoundID:      row.RoundID,
		PlayerID:     row.PlayerID,
		PlayerName:   row.PlayerName,
		AccountID:    row.AccountID,
		CourseID:     row.CourseID,
		Tee:          row.Tee,
		Formats:      formats,
		Handicap:     row.Handicap,
		HandicapUsed: row.HandicapUsed,
		TeamHandicap: row.TeamHandicap,
		Line:         scoringdomain.LineFromSlice(row.Line),
		Gross:        row.Gross,
		Net:          row.Net,
		Stableford:   row.Stableford,
		HolesPlayed:  row.HolesPlayed,
		HolesWon:     row.HolesWon,
		PlayedAt:     row.PlayedAt,
	}
	if tm := row.TeamMatch; tm != nil {
		rec.TeamMatch = &historydomain.TeamMatchResult{TeamID: tm.TeamID, Front9: tm.Front9, Back9: tm.Back9, Overall: tm.Overall}
	}
	return rec
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

func withTelemetry[S any, F any](
	s *Recorder,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}
	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

func runInTx[S any, F any](
	s *Recorder,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

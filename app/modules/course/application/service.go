package courseservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	coursedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "CourseService"

// CourseService implements the Service interface.
type CourseService struct {
	repo    coursedb.Repository
	logger  *slog.Logger
	metrics metrics.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	repo coursedb.Repository,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *CourseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

var _ Service = (*CourseService)(nil)

// GetTee loads and validates the 18 holes of a tee.
func (s *CourseService) GetTee(ctx context.Context, courseID, tee string) (*coursedomain.Tee, error) {
	getTeeTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*coursedomain.Tee, error], error) {
		return s.getTeeLogic(ctx, db, courseID, tee)
	}

	result, err := withTelemetry(s, ctx, "GetTee", courseID+"/"+tee, func(ctx context.Context) (results.OperationResult[*coursedomain.Tee, error], error) {
		return runInTx(s, ctx, getTeeTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func (s *CourseService) getTeeLogic(ctx context.Context, db bun.IDB, courseID, tee string) (results.OperationResult[*coursedomain.Tee, error], error) {
	rows, err := s.repo.GetHoles(ctx, db, courseID, tee)
	if err != nil {
		if errors.Is(err, coursedb.ErrNotFound) {
			return results.FailureResult[*coursedomain.Tee, error](err), nil
		}
		return results.OperationResult[*coursedomain.Tee, error]{}, fmt.Errorf("failed to load holes: %w", err)
	}

	holes := make([]coursedomain.HoleDefinition, 0, len(rows))
	for _, row := range rows {
		holes = append(holes, coursedomain.HoleDefinition{
			Number:      row.Number,
			Par:         row.Par,
			StrokeIndex: row.StrokeIndex,
			Yardage:     row.Yardage,
			Tee:         row.Tee,
		})
	}

	t, err := coursedomain.NewTee(courseID, tee, holes)
	if err != nil {
		// Stored data that fails validation is a domain failure, not an outage.
		return results.FailureResult[*coursedomain.Tee, error](err), nil
	}
	return results.SuccessResult[*coursedomain.Tee, error](t), nil
}

// ImportTee stores a validated tee layout.
func (s *CourseService) ImportTee(ctx context.Context, tee *coursedomain.Tee) error {
	importTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		rows := make([]coursedb.HoleRow, 0, coursedomain.HolesPerRound)
		for _, h := range tee.Holes() {
			rows = append(rows, coursedb.HoleRow{
				CourseID:    tee.CourseID(),
				Tee:         tee.Name(),
				Number:      h.Number,
				Par:         h.Par,
				StrokeIndex: h.StrokeIndex,
				Yardage:     h.Yardage,
			})
		}
		if err := s.repo.UpsertHoles(ctx, db, rows); err != nil {
			return results.OperationResult[int, error]{}, err
		}
		return results.SuccessResult[int, error](len(rows)), nil
	}

	_, err := withTelemetry(s, ctx, "ImportTee", tee.CourseID()+"/"+tee.Name(), func(ctx context.Context) (results.OperationResult[int, error], error) {
		return runInTx(s, ctx, importTx)
	})
	return err
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *CourseService,
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

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	} else {
		s.logger.DebugContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *CourseService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: false}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

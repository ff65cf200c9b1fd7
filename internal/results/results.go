// Package results carries the outcome of a service operation, separating
// domain failures from infrastructure errors.
package results

// OperationResult holds either a success payload or a domain failure payload.
// Infrastructure errors travel separately as the error return of the operation.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult builds a result carrying a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult builds a result carrying a failure payload.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}

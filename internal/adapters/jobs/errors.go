package jobs

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// FailureKind classifies a dispatch failure for the job source. The
// worker retries conflicts and internal errors; everything else goes
// back to the engine as a terminal failure.
type FailureKind string

const (
	KindNotFound          FailureKind = "NOT_FOUND"
	KindInvalidInput      FailureKind = "INVALID_INPUT"
	KindInvalidTransition FailureKind = "INVALID_TRANSITION"
	KindConflict          FailureKind = "CONFLICT"
	KindInternal          FailureKind = "INTERNAL"
)

// JobFailure is a classified dispatch failure
type JobFailure struct {
	Kind    FailureKind
	Message string
}

func (e *JobFailure) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether re-running the same job can succeed
func (e *JobFailure) Retryable() bool {
	return e.Kind == KindConflict || e.Kind == KindInternal
}

// classify maps an error coming out of a handler to its failure kind
func classify(err error) *JobFailure {
	var (
		notFoundBatch *batch.ErrBatchNotFound
		notFoundOrder *planning.ErrOrderNotFound
		dupOrder      *planning.ErrDuplicateOrder
		transition    *batch.ErrInvalidTransition
		missingReason *batch.ErrMissingDiscardReason
		conflict      *batch.ErrConcurrencyConflict
		inputErr      *shared.InputError
		fieldErr      *shared.ValidationError
		validatorErrs validator.ValidationErrors
	)

	switch {
	case errors.As(err, &notFoundBatch), errors.As(err, &notFoundOrder):
		return &JobFailure{Kind: KindNotFound, Message: err.Error()}
	case errors.As(err, &conflict):
		return &JobFailure{Kind: KindConflict, Message: err.Error()}
	case errors.As(err, &transition):
		return &JobFailure{Kind: KindInvalidTransition, Message: err.Error()}
	case errors.As(err, &missingReason),
		errors.As(err, &dupOrder),
		errors.As(err, &inputErr),
		errors.As(err, &fieldErr),
		errors.As(err, &validatorErrs):
		return &JobFailure{Kind: KindInvalidInput, Message: err.Error()}
	default:
		return &JobFailure{Kind: KindInternal, Message: err.Error()}
	}
}

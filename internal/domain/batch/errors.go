package batch

import "fmt"

// ErrBatchNotFound indicates the target batch does not exist.
// Fatal for the operation; never retried at this layer.
type ErrBatchNotFound struct {
	BatchID string
}

func (e *ErrBatchNotFound) Error() string {
	return fmt.Sprintf("batch not found: %s", e.BatchID)
}

// ErrDuplicateContribution indicates a contribution whose provenance token
// has already been recorded on the batch. Redelivered contributions are
// skipped, the merge treats this as success.
type ErrDuplicateContribution struct {
	BatchID string
	Token   string
}

func (e *ErrDuplicateContribution) Error() string {
	return fmt.Sprintf("contribution %s already recorded on batch %s", e.Token, e.BatchID)
}

// ErrInvalidTransition indicates a lifecycle transition that the state
// machine does not permit, such as finalizing an already-terminal batch
// or appending data to one.
type ErrInvalidTransition struct {
	BatchID string
	From    State
	To      State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition for batch %s: %s -> %s", e.BatchID, e.From, e.To)
}

// ErrMissingDiscardReason indicates a discard was requested without any
// attributed reason. A discarded batch must always carry at least one.
type ErrMissingDiscardReason struct {
	BatchID string
}

func (e *ErrMissingDiscardReason) Error() string {
	return fmt.Sprintf("discard of batch %s requires at least one reason", e.BatchID)
}

// ErrConcurrencyConflict indicates the batch snapshot changed between load
// and store. The whole load-modify-store cycle is safe to retry.
type ErrConcurrencyConflict struct {
	BatchID         string
	ExpectedVersion int
}

func (e *ErrConcurrencyConflict) Error() string {
	return fmt.Sprintf("batch %s was modified concurrently (expected version %d)", e.BatchID, e.ExpectedVersion)
}

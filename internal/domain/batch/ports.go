package batch

import "context"

// Repository defines the persistence operations for batches.
//
// Update performs the optimistic store half of a load-modify-store cycle:
// it must compare the stored version against the snapshot's Version() and
// return *ErrConcurrencyConflict when they diverge, so that two concurrent
// merges targeting the same batch serialize instead of losing data.
type Repository interface {
	FindByID(ctx context.Context, batchID string) (*Batch, error)
	Add(ctx context.Context, b *Batch) error
	Update(ctx context.Context, b *Batch) error
}

// AuditExporter writes the terminal snapshot of a finalized batch to
// durable storage. Export is write-once and never read back during the
// batch's active lifetime.
type AuditExporter interface {
	Export(ctx context.Context, b *Batch) error
}

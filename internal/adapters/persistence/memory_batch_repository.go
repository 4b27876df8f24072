package persistence

import (
	"context"
	"sync"

	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// MemoryBatchRepository is an in-memory batch store with the same
// optimistic concurrency contract as the GORM repository. Used by tests
// and by workers that do not need durability.
type MemoryBatchRepository struct {
	mu    sync.RWMutex
	docs  map[string]batch.Document
	clock shared.Clock
}

// NewMemoryBatchRepository creates an empty in-memory batch repository
func NewMemoryBatchRepository(clock shared.Clock) *MemoryBatchRepository {
	return &MemoryBatchRepository{
		docs:  make(map[string]batch.Document),
		clock: clock,
	}
}

// FindByID returns an independent snapshot of the stored batch
func (r *MemoryBatchRepository) FindByID(ctx context.Context, batchID string) (*batch.Batch, error) {
	r.mu.RLock()
	doc, ok := r.docs[batchID]
	r.mu.RUnlock()

	if !ok {
		return nil, &batch.ErrBatchNotFound{BatchID: batchID}
	}

	return batch.FromDocument(doc, r.clock)
}

// Add stores a freshly opened batch
func (r *MemoryBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	doc, err := batch.ToDocument(b)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[b.BatchID()]; exists {
		return shared.NewInputError("batch " + b.BatchID() + " already exists")
	}

	r.docs[b.BatchID()] = doc
	return nil
}

// Update stores a modified snapshot if no other writer got there first
func (r *MemoryBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	doc, err := batch.ToDocument(b)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.docs[b.BatchID()]
	if !ok {
		return &batch.ErrBatchNotFound{BatchID: b.BatchID()}
	}

	if stored.Version != b.Version() {
		return &batch.ErrConcurrencyConflict{BatchID: b.BatchID(), ExpectedVersion: b.Version()}
	}

	doc.Version = stored.Version + 1
	r.docs[b.BatchID()] = doc
	return nil
}

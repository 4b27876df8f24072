package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitza/batchtrace-go/internal/domain/batch"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// BatchRepositoryGORM implements batch persistence using GORM
type BatchRepositoryGORM struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewBatchRepository creates a new GORM-based batch repository
func NewBatchRepository(db *gorm.DB, clock shared.Clock) *BatchRepositoryGORM {
	return &BatchRepositoryGORM{db: db, clock: clock}
}

// FindByID retrieves a batch snapshot by its id
func (r *BatchRepositoryGORM) FindByID(ctx context.Context, batchID string) (*batch.Batch, error) {
	var model BatchModel

	result := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &batch.ErrBatchNotFound{BatchID: batchID}
		}
		return nil, fmt.Errorf("failed to load batch: %w", result.Error)
	}

	return modelToBatch(&model, r.clock)
}

// Add inserts a freshly opened batch
func (r *BatchRepositoryGORM) Add(ctx context.Context, b *batch.Batch) error {
	model, err := batchToModel(b, b.Version(), r.clock.Now())
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	return nil
}

// Update stores a modified snapshot, guarded by the version the snapshot
// was loaded at. A concurrent writer bumps the stored version first and
// the update then matches zero rows.
func (r *BatchRepositoryGORM) Update(ctx context.Context, b *batch.Batch) error {
	model, err := batchToModel(b, b.Version()+1, r.clock.Now())
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&BatchModel{}).
		Where("batch_id = ? AND version = ?", b.BatchID(), b.Version()).
		Updates(map[string]interface{}{
			"state":      model.State,
			"version":    model.Version,
			"document":   model.Document,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update batch: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&BatchModel{}).
			Where("batch_id = ?", b.BatchID()).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check batch existence: %w", err)
		}
		if count == 0 {
			return &batch.ErrBatchNotFound{BatchID: b.BatchID()}
		}
		return &batch.ErrConcurrencyConflict{BatchID: b.BatchID(), ExpectedVersion: b.Version()}
	}

	return nil
}

func batchToModel(b *batch.Batch, version int, now time.Time) (*BatchModel, error) {
	doc, err := batch.ToDocument(b)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize batch: %w", err)
	}
	doc.Version = version

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize batch: %w", err)
	}

	return &BatchModel{
		BatchID:     b.BatchID(),
		ProductType: string(b.ProductType()),
		State:       string(b.State()),
		Version:     version,
		Document:    string(raw),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   now,
	}, nil
}

func modelToBatch(model *BatchModel, clock shared.Clock) (*batch.Batch, error) {
	var doc batch.Document
	if err := json.Unmarshal([]byte(model.Document), &doc); err != nil {
		return nil, fmt.Errorf("failed to deserialize batch %s: %w", model.BatchID, err)
	}

	// The version column is authoritative for the optimistic check
	doc.Version = model.Version

	b, err := batch.FromDocument(doc, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild batch %s: %w", model.BatchID, err)
	}

	return b, nil
}

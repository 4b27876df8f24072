package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// StockOracleGORM answers availability questions from the stock_levels
// table. A material with no row counts as out of stock.
type StockOracleGORM struct {
	db *gorm.DB
}

// NewStockOracle creates a new GORM-based stock oracle
func NewStockOracle(db *gorm.DB) *StockOracleGORM {
	return &StockOracleGORM{db: db}
}

// InStock reports whether at least quantity units of the material are on hand
func (o *StockOracleGORM) InStock(ctx context.Context, materialID string, quantity int64) (bool, error) {
	var model StockLevelModel

	result := o.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read stock level: %w", result.Error)
	}

	return model.Quantity >= quantity, nil
}

// SetLevel upserts the on-hand quantity for a material. Used by
// migrations and test seeding.
func (o *StockOracleGORM) SetLevel(ctx context.Context, material shared.RawMaterial, quantity int64) error {
	model := StockLevelModel{
		MaterialID:   material.MaterialID,
		MaterialName: material.Name,
		Quantity:     quantity,
		UpdatedAt:    time.Now().UTC(),
	}

	err := o.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "material_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"material_name", "quantity", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to set stock level: %w", err)
	}

	return nil
}

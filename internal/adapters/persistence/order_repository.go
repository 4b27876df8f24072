package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// OrderRepositoryGORM implements order persistence using GORM
type OrderRepositoryGORM struct {
	db *gorm.DB
}

// NewOrderRepository creates a new GORM-based order repository
func NewOrderRepository(db *gorm.DB) *OrderRepositoryGORM {
	return &OrderRepositoryGORM{db: db}
}

// FindByID retrieves an order by its id
func (r *OrderRepositoryGORM) FindByID(ctx context.Context, orderID string) (*planning.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &planning.ErrOrderNotFound{OrderID: orderID}
		}
		return nil, fmt.Errorf("failed to load order: %w", result.Error)
	}

	return modelToOrder(&model)
}

// Add inserts a new order record
func (r *OrderRepositoryGORM) Add(ctx context.Context, order *planning.Order) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("order_id = ?", order.OrderID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check order id: %w", err)
	}
	if count > 0 {
		return &planning.ErrDuplicateOrder{OrderID: order.OrderID}
	}

	model, err := orderToModel(order)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func orderToModel(order *planning.Order) (*OrderModel, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize order items: %w", err)
	}

	customerJSON := ""
	if order.Customer != nil {
		raw, err := json.Marshal(order.Customer)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize customer: %w", err)
		}
		customerJSON = string(raw)
	}

	return &OrderModel{
		OrderID:   order.OrderID,
		OrderDate: order.OrderDate,
		Status:    order.Status,
		Customer:  customerJSON,
		Items:     string(itemsJSON),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func modelToOrder(model *OrderModel) (*planning.Order, error) {
	var items []planning.LineItem
	if err := json.Unmarshal([]byte(model.Items), &items); err != nil {
		return nil, fmt.Errorf("failed to deserialize order %s items: %w", model.OrderID, err)
	}

	var customer *shared.Customer
	if model.Customer != "" {
		customer = &shared.Customer{}
		if err := json.Unmarshal([]byte(model.Customer), customer); err != nil {
			return nil, fmt.Errorf("failed to deserialize order %s customer: %w", model.OrderID, err)
		}
	}

	return &planning.Order{
		OrderID:   model.OrderID,
		OrderDate: model.OrderDate,
		Status:    model.Status,
		Customer:  customer,
		Items:     items,
	}, nil
}

package persistence

import (
	"time"
)

// BatchModel represents the batches table. The full snapshot is stored as
// one serialized document; the discriminating columns exist for lookups
// and for the optimistic version check on update.
type BatchModel struct {
	BatchID     string    `gorm:"column:batch_id;primaryKey;not null"`
	ProductType string    `gorm:"column:product_type;not null"`
	State       string    `gorm:"column:state;not null"`
	Version     int       `gorm:"column:version;not null;default:0"`
	Document    string    `gorm:"column:document;type:text;not null"` // JSON as text
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (BatchModel) TableName() string {
	return "batches"
}

// OrderModel represents the orders table
type OrderModel struct {
	OrderID   string    `gorm:"column:order_id;primaryKey;not null"`
	OrderDate time.Time `gorm:"column:order_date;not null"`
	Status    string    `gorm:"column:status;not null"`
	Customer  string    `gorm:"column:customer;type:text"` // JSON as text
	Items     string    `gorm:"column:items;type:text;not null"` // JSON array as text
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// StockLevelModel represents the stock_levels table consulted by the
// availability gate
type StockLevelModel struct {
	MaterialID   string    `gorm:"column:material_id;primaryKey;not null"`
	MaterialName string    `gorm:"column:material_name;not null"`
	Quantity     int64     `gorm:"column:quantity;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// JobModel represents the job_queue table backing engine-less runs.
// Each row is one pending unit of work for the worker loop.
type JobModel struct {
	Key          int64     `gorm:"column:key;primaryKey;autoIncrement"`
	Type         string    `gorm:"column:type;not null"`
	Payload      string    `gorm:"column:payload;type:text;not null"` // JSON as text
	Retries      int       `gorm:"column:retries;not null;default:3"`
	Status       string    `gorm:"column:status;not null;default:'pending'"`
	Result       string    `gorm:"column:result;type:text"` // JSON as text
	ErrorMessage string    `gorm:"column:error_message;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (JobModel) TableName() string {
	return "job_queue"
}

// AllModels lists every model for migration
func AllModels() []interface{} {
	return []interface{}{
		&BatchModel{},
		&OrderModel{},
		&StockLevelModel{},
		&JobModel{},
	}
}

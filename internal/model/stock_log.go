package model

import (
	"time"
)

// StockLog inventory movement audit row. Every commit writes a deduct
// row per line; every compensation or refund writes a revert row.
type StockLog struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID     uint64    `gorm:"type:bigint unsigned;not null;index" json:"product_id"`
	StoreID       uint64    `gorm:"type:bigint unsigned;not null;index" json:"store_id"`
	OperationType int8      `gorm:"type:tinyint;not null" json:"operation_type"`
	Quantity      int       `gorm:"type:int;not null" json:"quantity"`
	OrderNo       *string   `gorm:"type:varchar(32);index" json:"order_no,omitempty"`
	Remark        *string   `gorm:"type:varchar(255)" json:"remark,omitempty"`
	CreatedAt     time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName set name
func (StockLog) TableName() string {
	return "stock_logs"
}

// OperationType operation type const
const (
	OperationTypeDeduct = 1
	OperationTypeRevert = 2
)

// IsDeduct check if operation is deduct
func (sl *StockLog) IsDeduct() bool {
	return sl.OperationType == OperationTypeDeduct
}

// IsRevert check if operation is revert
func (sl *StockLog) IsRevert() bool {
	return sl.OperationType == OperationTypeRevert
}

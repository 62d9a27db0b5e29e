package model

import (
	"fmt"
	"time"
)

// Order order aggregate. Created only by the order committer; total
// price is a snapshot taken at commit time and never recomputed.
type Order struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	OrderNo    string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`
	CustomerID uint64     `gorm:"type:bigint unsigned;not null;index" json:"customer_id"`
	StoreID    uint64     `gorm:"type:bigint unsigned;not null;index" json:"store_id"`
	Address    string     `gorm:"type:varchar(255);not null" json:"address"`
	AddressLat float64    `gorm:"type:double;not null;default:0" json:"address_lat"`
	AddressLng float64    `gorm:"type:double;not null;default:0" json:"address_lng"`
	TotalPrice int64      `gorm:"type:bigint;not null" json:"total_price"` // cents
	Status     int8       `gorm:"type:tinyint;not null;default:1;index" json:"status"`
	PaymentNo  *string    `gorm:"type:varchar(64)" json:"payment_no,omitempty"`
	RefundedAt *time.Time `gorm:"type:timestamp" json:"refunded_at,omitempty"`
	CreatedAt  time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`

	Store *Store      `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName set name
func (Order) TableName() string {
	return "orders"
}

// OrderItem order line with price snapshot
type OrderItem struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint64    `gorm:"type:bigint unsigned;not null;index" json:"order_id"`
	OrderNo     string    `gorm:"type:varchar(32);not null;index" json:"order_no"`
	ProductID   uint64    `gorm:"type:bigint unsigned;not null;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`
	Price       int64     `gorm:"type:bigint;not null" json:"price"` // unit price at commit, cents
	Quantity    int       `gorm:"type:int;not null" json:"quantity"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"` // line subtotal, cents
	CreatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName set name
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatus order status const
const (
	OrderStatusPending            = 1
	OrderStatusCommitted          = 2
	OrderStatusRefunded           = 3
	OrderStatusCancellationFailed = 4
)

// IsPending check order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCommitted check order is committed
func (o *Order) IsCommitted() bool {
	return o.Status == OrderStatusCommitted
}

// IsRefunded check order is refunded
func (o *Order) IsRefunded() bool {
	return o.Status == OrderStatusRefunded
}

// CanRefund check order can refund
func (o *Order) CanRefund() bool {
	return o.IsCommitted()
}

// GetTotalPriceAmount get total price in major currency units
func (o *Order) GetTotalPriceAmount() float64 {
	return float64(o.TotalPrice) / 100
}

// FormatTotalPrice renders the total the way downstream notification
// consumers expect it
func (o *Order) FormatTotalPrice() string {
	return fmt.Sprintf("%.2f", o.GetTotalPriceAmount())
}

package model

import (
	"time"
)

// Product product model. Quantity is the per-store inventory record:
// the committer decrements it with a conditional update so concurrent
// checkouts for the same product serialize on the row.
type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID     uint64    `gorm:"type:bigint unsigned;not null;index" json:"store_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Price       int64     `gorm:"type:bigint;not null" json:"price"` // cents
	Quantity    int       `gorm:"type:int;not null;default:0" json:"quantity"`
	Status      int8      `gorm:"type:tinyint;not null;default:1;index" json:"status"`
	CreatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

// TableName set name
func (Product) TableName() string {
	return "products"
}

// ProductStatus product status const
const (
	ProductStatusOnSale  = 1
	ProductStatusOffSale = 2
)

// IsOnSale check if product is on sale
func (p *Product) IsOnSale() bool {
	return p.Status == ProductStatusOnSale
}

// HasQuantity check if the requested quantity is available
func (p *Product) HasQuantity(n int) bool {
	return p.Quantity >= n
}

// GetPriceAmount get price in major currency units
func (p *Product) GetPriceAmount() float64 {
	return float64(p.Price) / 100
}

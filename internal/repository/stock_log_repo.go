package repository

import (
	"context"

	"gorm.io/gorm"

	"fooddelivery/internal/model"
	"fooddelivery/pkg/utils"
)

// StockLogRepository inventory audit log data access
type StockLogRepository struct {
	db *gorm.DB
}

// NewStockLogRepository create stock log repository
func NewStockLogRepository(db *gorm.DB) *StockLogRepository {
	return &StockLogRepository{db: db}
}

// WithTx return a copy bound to the given transaction
func (r *StockLogRepository) WithTx(tx *gorm.DB) *StockLogRepository {
	return &StockLogRepository{db: tx}
}

// Create write an inventory movement row
func (r *StockLogRepository) Create(ctx context.Context, stockLog *model.StockLog) error {
	if err := r.db.WithContext(ctx).Create(stockLog).Error; err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to create stock log")
	}
	return nil
}

// ListByOrderNo list movements of an order
func (r *StockLogRepository) ListByOrderNo(ctx context.Context, orderNo string) ([]*model.StockLog, error) {
	var logs []*model.StockLog
	err := r.db.WithContext(ctx).
		Where("order_no = ?", orderNo).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to list stock logs")
	}
	return logs, nil
}

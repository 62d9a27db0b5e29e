package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fooddelivery/internal/model"
	"fooddelivery/pkg/utils"
)

// OrderRepository order data access
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx return a copy bound to the given transaction
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create persist an order and its items. IDs are assigned by the caller
// so the two inserts stay deterministic.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to create order")
	}

	if len(order.Items) > 0 {
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].OrderNo = order.OrderNo
		}
		if err := r.db.WithContext(ctx).Create(&order.Items).Error; err != nil {
			return utils.WrapError(err, utils.CodeDatabaseError, "failed to create order items")
		}
	}

	return nil
}

// GetByID get order with items by id
func (r *OrderRepository) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to get order")
	}
	return &order, nil
}

// UpdateStatus update order status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return utils.WrapError(result.Error, utils.CodeDatabaseError, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return utils.ErrOrderNotFound
	}
	return nil
}

// MarkCommitted record the payment receipt and move the order to committed
func (r *OrderRepository) MarkCommitted(ctx context.Context, id uint64, paymentNo string) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusCommitted,
			"payment_no": paymentNo,
		})
	if result.Error != nil {
		return utils.WrapError(result.Error, utils.CodeDatabaseError, "failed to mark order committed")
	}
	if result.RowsAffected == 0 {
		return utils.ErrOrderNotFound
	}
	return nil
}

// MarkRefunded move the order to refunded
func (r *OrderRepository) MarkRefunded(ctx context.Context, id uint64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderStatusCommitted).
		Updates(map[string]interface{}{
			"status":      model.OrderStatusRefunded,
			"refunded_at": &now,
		})
	if result.Error != nil {
		return utils.WrapError(result.Error, utils.CodeDatabaseError, "failed to mark order refunded")
	}
	if result.RowsAffected == 0 {
		return utils.ErrOrderNotFound
	}
	return nil
}

// ListByCustomer list orders of a customer with pagination
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("customer_id = ?", customerID)
	return r.list(ctx, query, page, pageSize)
}

// ListByStore list orders of a store with pagination
func (r *OrderRepository) ListByStore(ctx context.Context, storeID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("store_id = ?", storeID)
	return r.list(ctx, query, page, pageSize)
}

// ListAll list all orders with pagination
func (r *OrderRepository) ListAll(ctx context.Context, page, pageSize int) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})
	return r.list(ctx, query, page, pageSize)
}

func (r *OrderRepository) list(ctx context.Context, query *gorm.DB, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to count orders")
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to list orders")
	}

	return orders, total, nil
}

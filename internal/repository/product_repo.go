package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fooddelivery/internal/model"
	"fooddelivery/pkg/utils"
)

// ProductRepository product data access
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository create product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx return a copy bound to the given transaction
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// GetByID get product by id
func (r *ProductRepository) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to get product")
	}
	return &product, nil
}

// GetByIDs get products by ids
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uint64) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to get products")
	}
	return products, nil
}

// ListByStore list on-sale products of a store with pagination
func (r *ProductRepository) ListByStore(ctx context.Context, storeID uint64, page, pageSize int) ([]*model.Product, int64, error) {
	var products []*model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("store_id = ? AND status = ?", storeID, model.ProductStatusOnSale)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to count products")
	}

	offset := (page - 1) * pageSize
	err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&products).Error
	if err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to list products")
	}

	return products, total, nil
}

// DecrementQuantity conditionally decrement inventory. The WHERE clause
// rejects the update when the remaining quantity is short, so concurrent
// commits never drive inventory negative.
func (r *ProductRepository) DecrementQuantity(ctx context.Context, productID uint64, quantity int) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return utils.WrapError(result.Error, utils.CodeDatabaseError, "failed to decrement quantity")
	}

	if result.RowsAffected == 0 {
		var product model.Product
		err := r.db.WithContext(ctx).First(&product, productID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrProductNotFound
			}
			return utils.WrapError(err, utils.CodeDatabaseError, "failed to get product")
		}
		return utils.NewInsufficientQuantity(product.Name)
	}

	return nil
}

// IncrementQuantity put inventory back, used for compensation and refunds
func (r *ProductRepository) IncrementQuantity(ctx context.Context, productID uint64, quantity int) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))

	if result.Error != nil {
		return utils.WrapError(result.Error, utils.CodeDatabaseError, "failed to increment quantity")
	}

	if result.RowsAffected == 0 {
		return utils.ErrProductNotFound
	}

	return nil
}

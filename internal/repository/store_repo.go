package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fooddelivery/internal/model"
	"fooddelivery/pkg/geo"
	"fooddelivery/pkg/utils"
)

// StoreRepository store data access
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository create store repository
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// GetByID get store by id
func (r *StoreRepository) GetByID(ctx context.Context, id uint64) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).First(&store, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrStoreNotFound
		}
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to get store")
	}
	return &store, nil
}

// ServiceRegion load the coverage region of a store
func (r *StoreRepository) ServiceRegion(ctx context.Context, id uint64) (geo.Region, error) {
	store, err := r.GetByID(ctx, id)
	if err != nil {
		return geo.Region{}, err
	}
	return store.ServiceRegion(), nil
}

// List list stores with pagination
func (r *StoreRepository) List(ctx context.Context, page, pageSize int, category string) ([]*model.Store, int64, error) {
	var stores []*model.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Store{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to count stores")
	}

	offset := (page - 1) * pageSize
	err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&stores).Error
	if err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to list stores")
	}

	return stores, total, nil
}

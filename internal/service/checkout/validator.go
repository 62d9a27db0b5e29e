package checkout

import (
	"context"
	"fmt"

	"fooddelivery/internal/config"
	"fooddelivery/internal/model"
	"fooddelivery/pkg/geo"
	"fooddelivery/pkg/utils"
)

// CartLine one requested product with its quantity. Unit price is
// resolved server side at commit time.
type CartLine struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest checkout request payload
type CheckoutRequest struct {
	StoreID       uint64     `json:"store_id" binding:"required"`
	Address       string     `json:"address" binding:"required"`
	AddressLat    float64    `json:"address_lat"`
	AddressLng    float64    `json:"address_lng"`
	PaymentMethod string     `json:"payment_method"`
	Lines         []CartLine `json:"lines" binding:"required,dive"`
}

type storeReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Store, error)
}

type productReader interface {
	GetByIDs(ctx context.Context, ids []uint64) ([]*model.Product, error)
}

// Validator runs the ordered pre-commit checks. Read only: the commit
// transaction remains the authority on inventory.
type Validator struct {
	stores   storeReader
	products productReader
	regions  RegionProvider
	cfg      *config.CheckoutConfig
}

// NewValidator create validator
func NewValidator(stores storeReader, products productReader, regions RegionProvider, cfg *config.CheckoutConfig) *Validator {
	return &Validator{
		stores:   stores,
		products: products,
		regions:  regions,
		cfg:      cfg,
	}
}

// Validate run the checks in order, stopping at the first failure:
// request shape, delivery topology, item compatibility, quantity.
func (v *Validator) Validate(ctx context.Context, req *CheckoutRequest) error {
	if err := v.checkRequest(req); err != nil {
		return err
	}
	if err := v.checkTopology(ctx, req); err != nil {
		return err
	}
	return v.checkItems(ctx, req)
}

func (v *Validator) checkRequest(req *CheckoutRequest) error {
	if len(req.Lines) == 0 {
		return utils.NewError(utils.CodeInvalidParam, "cart is empty")
	}
	if v.cfg.MaxCartLines > 0 && len(req.Lines) > v.cfg.MaxCartLines {
		return utils.NewError(utils.CodeInvalidParam,
			fmt.Sprintf("cart exceeds %d lines", v.cfg.MaxCartLines))
	}
	seen := make(map[uint64]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return utils.NewError(utils.CodeInvalidParam, "quantity must be positive")
		}
		if _, dup := seen[line.ProductID]; dup {
			return utils.NewError(utils.CodeInvalidParam,
				fmt.Sprintf("duplicate product %d in cart", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

func (v *Validator) checkTopology(ctx context.Context, req *CheckoutRequest) error {
	store, err := v.stores.GetByID(ctx, req.StoreID)
	if err != nil {
		return err
	}
	if !store.IsOpen() {
		return utils.NewError(utils.CodeActionNotAllowed, "store is closed")
	}

	region, err := v.regions.ServiceRegion(ctx, req.StoreID)
	if err != nil {
		return err
	}
	if err := region.Validate(); err != nil {
		return utils.WrapError(err, utils.CodeInvalidTopology, "store service region is malformed")
	}

	point := geo.Point{Lat: req.AddressLat, Lng: req.AddressLng}
	if !region.Contains(point) {
		return utils.ErrAddressNotSupported
	}
	return nil
}

func (v *Validator) checkItems(ctx context.Context, req *CheckoutRequest) error {
	ids := make([]uint64, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.ProductID)
	}

	products, err := v.products.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uint64]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, line := range req.Lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return utils.ErrProductNotFound
		}
		if product.StoreID != req.StoreID && !v.cfg.AllowCrossStore {
			return utils.NewError(utils.CodeIncompatibleItems,
				fmt.Sprintf("product %s belongs to another store", product.Name))
		}
		if !product.IsOnSale() {
			return utils.NewError(utils.CodeInvalidParam,
				fmt.Sprintf("product %s is not on sale", product.Name))
		}
		if !product.HasQuantity(line.Quantity) {
			return utils.NewInsufficientQuantity(product.Name)
		}
	}
	return nil
}

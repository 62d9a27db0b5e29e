package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fooddelivery/internal/model"
	"fooddelivery/internal/monitor"
	"fooddelivery/internal/repository"
	"fooddelivery/pkg/log"
	"fooddelivery/pkg/snowflake"
)

const reconcileKeyFormat = "reconcile:order:%d"

// Committer turns a validated cart into a pending order inside one
// transaction. Either every line reserves its inventory and the order
// row lands, or nothing does.
type Committer struct {
	db        *gorm.DB
	products  *repository.ProductRepository
	orders    *repository.OrderRepository
	stockLogs *repository.StockLogRepository
	idgen     *snowflake.IDGenerator
	rdb       *redis.Client
}

// NewCommitter create committer
func NewCommitter(
	db *gorm.DB,
	products *repository.ProductRepository,
	orders *repository.OrderRepository,
	stockLogs *repository.StockLogRepository,
	idgen *snowflake.IDGenerator,
	rdb *redis.Client,
) *Committer {
	return &Committer{
		db:        db,
		products:  products,
		orders:    orders,
		stockLogs: stockLogs,
		idgen:     idgen,
		rdb:       rdb,
	}
}

// Commit reserve inventory and persist a pending order, all or nothing
func (c *Committer) Commit(ctx context.Context, customerID uint64, req *CheckoutRequest) (*model.Order, error) {
	orderID := uint64(c.idgen.NextID())
	order := &model.Order{
		ID:         orderID,
		OrderNo:    fmt.Sprintf("FD%d", orderID),
		CustomerID: customerID,
		StoreID:    req.StoreID,
		Address:    req.Address,
		AddressLat: req.AddressLat,
		AddressLng: req.AddressLng,
		Status:     model.OrderStatusPending,
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := c.products.WithTx(tx)
		stockLogs := c.stockLogs.WithTx(tx)

		var total int64
		items := make([]model.OrderItem, 0, len(req.Lines))

		for _, line := range req.Lines {
			product, err := products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}

			if err := products.DecrementQuantity(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			if err := stockLogs.Create(ctx, &model.StockLog{
				ProductID:     product.ID,
				StoreID:       product.StoreID,
				OperationType: model.OperationTypeDeduct,
				Quantity:      line.Quantity,
				OrderNo:       &order.OrderNo,
			}); err != nil {
				return err
			}

			amount := product.Price * int64(line.Quantity)
			total += amount
			items = append(items, model.OrderItem{
				ID:          uint64(c.idgen.NextID()),
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    line.Quantity,
				Amount:      amount,
			})
		}

		order.TotalPrice = total
		order.Items = items

		return c.orders.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Release put the reserved inventory back, used when payment fails and
// when an order is refunded
func (c *Committer) Release(ctx context.Context, order *model.Order) error {
	remark := "release"
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := c.products.WithTx(tx)
		stockLogs := c.stockLogs.WithTx(tx)

		for _, item := range order.Items {
			if err := products.IncrementQuantity(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := stockLogs.Create(ctx, &model.StockLog{
				ProductID:     item.ProductID,
				StoreID:       order.StoreID,
				OperationType: model.OperationTypeRevert,
				Quantity:      item.Quantity,
				OrderNo:       &order.OrderNo,
				Remark:        &remark,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// FlagReconciliation record a compensation that could not be applied so
// an operator can settle it by hand
func (c *Committer) FlagReconciliation(ctx context.Context, order *model.Order, cause error) {
	monitor.CompensationFailuresTotal.Inc()

	key := fmt.Sprintf(reconcileKeyFormat, order.ID)
	payload := fmt.Sprintf(`{"order_no":%q,"cause":%q,"at":%q}`,
		order.OrderNo, cause.Error(), time.Now().Format(time.RFC3339))

	if err := c.rdb.Set(ctx, key, payload, 0).Err(); err != nil {
		log.WithError(err).WithField("order_id", order.ID).
			Error("Failed to flag order for reconciliation")
		return
	}

	log.WithField("order_id", order.ID).WithError(cause).
		Error("Order flagged for inventory reconciliation")
}

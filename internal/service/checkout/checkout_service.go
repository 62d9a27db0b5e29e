package checkout

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"fooddelivery/internal/model"
	"fooddelivery/internal/monitor"
	"fooddelivery/internal/notify"
	"fooddelivery/internal/service/payment"
	"fooddelivery/internal/utils"
	"fooddelivery/pkg/log"
	pkgutils "fooddelivery/pkg/utils"
)

// validator pre-commit checks
type validator interface {
	Validate(ctx context.Context, req *CheckoutRequest) error
}

// committer atomic order creation and inventory compensation
type committer interface {
	Commit(ctx context.Context, customerID uint64, req *CheckoutRequest) (*model.Order, error)
	Release(ctx context.Context, order *model.Order) error
	FlagReconciliation(ctx context.Context, order *model.Order, cause error)
}

// paymentAdapter idempotent capture and refund
type paymentAdapter interface {
	Capture(ctx context.Context, orderID uint64, amount int64, method string) (*payment.Receipt, error)
	Refund(ctx context.Context, orderID uint64, receiptNo string, amount int64) error
}

// dispatcher order notifications, fire and forget
type dispatcher interface {
	DispatchOrderCreated(ctx context.Context, order *model.Order) notify.DispatchResult
}

// orderStore the slice of order persistence the orchestrator needs
type orderStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	MarkCommitted(ctx context.Context, id uint64, paymentNo string) error
	MarkRefunded(ctx context.Context, id uint64) error
	UpdateStatus(ctx context.Context, id uint64, status int8) error
	ListByCustomer(ctx context.Context, customerID uint64, page, pageSize int) ([]*model.Order, int64, error)
	ListByStore(ctx context.Context, storeID uint64, page, pageSize int) ([]*model.Order, int64, error)
	ListAll(ctx context.Context, page, pageSize int) ([]*model.Order, int64, error)
}

// Service drives the checkout pipeline: validate, commit, capture
// payment, then notify. Payment failure rolls the reservation back and
// surfaces; notification failure never does.
type Service struct {
	validator  validator
	committer  committer
	payment    paymentAdapter
	dispatcher dispatcher
	orders     orderStore

	// syncDispatch makes Dispatch run inline, used by tests and
	// single-process batch tooling
	syncDispatch bool
}

// NewService create checkout service
func NewService(v validator, c committer, p paymentAdapter, d dispatcher, orders orderStore, syncDispatch bool) *Service {
	return &Service{
		validator:    v,
		committer:    c,
		payment:      p,
		dispatcher:   d,
		orders:       orders,
		syncDispatch: syncDispatch,
	}
}

// CreateCheckout run the full pipeline for one cart
func (s *Service) CreateCheckout(ctx context.Context, customerID uint64, req *CheckoutRequest) (*model.Order, error) {
	start := time.Now()
	defer func() {
		monitor.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	if err := s.validator.Validate(ctx, req); err != nil {
		monitor.CheckoutTotal.WithLabelValues(checkoutResult(err)).Inc()
		return nil, err
	}

	order, err := s.committer.Commit(ctx, customerID, req)
	if err != nil {
		monitor.CheckoutTotal.WithLabelValues(checkoutResult(err)).Inc()
		return nil, err
	}

	receipt, err := s.payment.Capture(ctx, order.ID, order.TotalPrice, req.PaymentMethod)
	if err != nil {
		// the reservation must not outlive the failed payment
		if relErr := s.committer.Release(ctx, order); relErr != nil {
			s.committer.FlagReconciliation(ctx, order, relErr)
		}
		log.WithFields(logrus.Fields{
			"order_id":    order.ID,
			"customer_id": customerID,
		}).WithError(err).Warn("Checkout payment failed, reservation released")
		monitor.CheckoutTotal.WithLabelValues(monitor.ResultPaymentFailed).Inc()
		return nil, err
	}

	if err := s.orders.MarkCommitted(ctx, order.ID, receipt.ReceiptNo); err != nil {
		// money is captured but the order row did not advance, leave a
		// reconciliation trail instead of failing the customer
		s.committer.FlagReconciliation(ctx, order, err)
		log.WithError(err).WithField("order_id", order.ID).
			Error("Failed to mark order committed after capture")
	}
	order.Status = model.OrderStatusCommitted
	order.PaymentNo = &receipt.ReceiptNo

	s.dispatch(order)

	monitor.CheckoutTotal.WithLabelValues(monitor.ResultSuccess).Inc()
	log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"order_no":    order.OrderNo,
		"customer_id": customerID,
		"total_price": order.TotalPrice,
	}).Info("Checkout completed")

	return order, nil
}

// dispatch hand the order to the notification dispatcher. Runs in the
// background unless configured otherwise; the result never reaches the
// caller either way.
func (s *Service) dispatch(order *model.Order) {
	if s.syncDispatch {
		s.dispatcher.DispatchOrderCreated(context.Background(), order)
		return
	}
	go func() {
		s.dispatcher.DispatchOrderCreated(context.Background(), order)
	}()
}

// GetOrder load one order, scoped to the caller
func (s *Service) GetOrder(ctx context.Context, orderID uint64, user *UserInfo) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !user.CanAccessOrder(order) {
		return nil, pkgutils.ErrActionNotAllowed
	}
	return order, nil
}

// ListOrders list orders visible to the caller: customers see their
// own, partners see their store's, admins see everything
func (s *Service) ListOrders(ctx context.Context, user *UserInfo, page, pageSize int) ([]*model.Order, int64, error) {
	switch user.Role {
	case utils.RoleAdmin:
		return s.orders.ListAll(ctx, page, pageSize)
	case utils.RolePartner:
		return s.orders.ListByStore(ctx, user.StoreID, page, pageSize)
	default:
		return s.orders.ListByCustomer(ctx, user.ID, page, pageSize)
	}
}

// RefundOrder cancel a committed order: restore inventory, refund the
// payment, move to refunded. A failed restore marks the order so the
// failure is visible instead of silently retried.
func (s *Service) RefundOrder(ctx context.Context, orderID uint64, user *UserInfo) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !user.CanAccessOrder(order) {
		return pkgutils.ErrActionNotAllowed
	}
	if !order.CanRefund() {
		return pkgutils.NewError(pkgutils.CodeActionNotAllowed, "order cannot be refunded in its current state")
	}

	if err := s.committer.Release(ctx, order); err != nil {
		if stErr := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancellationFailed); stErr != nil {
			log.WithError(stErr).WithField("order_id", order.ID).
				Error("Failed to record cancellation failure")
		}
		log.WithError(err).WithField("order_id", order.ID).Error("Inventory restore failed during refund")
		return pkgutils.ErrCancellationFailed
	}

	receiptNo := ""
	if order.PaymentNo != nil {
		receiptNo = *order.PaymentNo
	}
	if err := s.payment.Refund(ctx, order.ID, receiptNo, order.TotalPrice); err != nil {
		if stErr := s.orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancellationFailed); stErr != nil {
			log.WithError(stErr).WithField("order_id", order.ID).
				Error("Failed to record cancellation failure")
		}
		log.WithError(err).WithField("order_id", order.ID).Error("Payment refund failed")
		return pkgutils.ErrCancellationFailed
	}

	if err := s.orders.MarkRefunded(ctx, order.ID); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"order_no": order.OrderNo,
	}).Info("Order refunded")
	return nil
}

// UserInfo the authenticated caller. StoreID is non-zero only for
// partners.
type UserInfo struct {
	ID      uint64
	Role    string
	StoreID uint64
}

// CanAccessOrder owner, the order's store partner, or admin
func (u *UserInfo) CanAccessOrder(order *model.Order) bool {
	switch u.Role {
	case utils.RoleAdmin:
		return true
	case utils.RolePartner:
		return order.StoreID == u.StoreID
	default:
		return order.CustomerID == u.ID
	}
}

func checkoutResult(err error) string {
	appErr, ok := pkgutils.IsAppError(err)
	if !ok {
		return monitor.ResultInternalError
	}
	switch appErr.Code {
	case pkgutils.CodeInsufficientQuantity:
		return monitor.ResultInsufficientQuantity
	case pkgutils.CodePaymentFailed:
		return monitor.ResultPaymentFailed
	case pkgutils.CodeInvalidParam, pkgutils.CodeAddressNotSupported,
		pkgutils.CodeInvalidTopology, pkgutils.CodeIncompatibleItems:
		return monitor.ResultValidationError
	default:
		return monitor.ResultInternalError
	}
}

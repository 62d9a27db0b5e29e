package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fooddelivery/internal/model"
	"fooddelivery/internal/notify"
	"fooddelivery/internal/service/payment"
	"fooddelivery/internal/utils"
	pkgutils "fooddelivery/pkg/utils"
)

type mockValidator struct{ mock.Mock }

func (m *mockValidator) Validate(ctx context.Context, req *CheckoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockCommitter struct{ mock.Mock }

func (m *mockCommitter) Commit(ctx context.Context, customerID uint64, req *CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, customerID, req)
	if order, ok := args.Get(0).(*model.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommitter) Release(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockCommitter) FlagReconciliation(ctx context.Context, order *model.Order, cause error) {
	m.Called(ctx, order, cause)
}

type mockPayment struct{ mock.Mock }

func (m *mockPayment) Capture(ctx context.Context, orderID uint64, amount int64, method string) (*payment.Receipt, error) {
	args := m.Called(ctx, orderID, amount, method)
	if receipt, ok := args.Get(0).(*payment.Receipt); ok {
		return receipt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPayment) Refund(ctx context.Context, orderID uint64, receiptNo string, amount int64) error {
	return m.Called(ctx, orderID, receiptNo, amount).Error(0)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) DispatchOrderCreated(ctx context.Context, order *model.Order) notify.DispatchResult {
	args := m.Called(ctx, order)
	return args.Get(0).(notify.DispatchResult)
}

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if order, ok := args.Get(0).(*model.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderStore) MarkCommitted(ctx context.Context, id uint64, paymentNo string) error {
	return m.Called(ctx, id, paymentNo).Error(0)
}

func (m *mockOrderStore) MarkRefunded(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderStore) ListByCustomer(ctx context.Context, customerID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, pageSize)
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderStore) ListByStore(ctx context.Context, storeID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	args := m.Called(ctx, storeID, page, pageSize)
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderStore) ListAll(ctx context.Context, page, pageSize int) ([]*model.Order, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

type serviceMocks struct {
	validator  *mockValidator
	committer  *mockCommitter
	payment    *mockPayment
	dispatcher *mockDispatcher
	orders     *mockOrderStore
}

func newTestService(t *testing.T) (*Service, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		validator:  &mockValidator{},
		committer:  &mockCommitter{},
		payment:    &mockPayment{},
		dispatcher: &mockDispatcher{},
		orders:     &mockOrderStore{},
	}
	// sync dispatch keeps assertions deterministic
	svc := NewService(m.validator, m.committer, m.payment, m.dispatcher, m.orders, true)
	return svc, m
}

func pendingOrder() *model.Order {
	return &model.Order{
		ID:         1001,
		OrderNo:    "FD1001",
		CustomerID: 7,
		StoreID:    3,
		Address:    "12 Main St",
		TotalPrice: 2500,
		Status:     model.OrderStatusPending,
		Items:      []model.OrderItem{{ProductID: 1, Quantity: 2}},
	}
}

func testReceipt() *payment.Receipt {
	return &payment.Receipt{ReceiptNo: "PAY-1", OrderID: 1001, Amount: 2500, CapturedAt: time.Now()}
}

func TestService_CreateCheckout(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	req := validRequest()
	order := pendingOrder()

	m.validator.On("Validate", ctx, req).Return(nil)
	m.committer.On("Commit", ctx, uint64(7), req).Return(order, nil)
	m.payment.On("Capture", ctx, order.ID, order.TotalPrice, req.PaymentMethod).Return(testReceipt(), nil)
	m.orders.On("MarkCommitted", ctx, order.ID, "PAY-1").Return(nil)
	m.dispatcher.On("DispatchOrderCreated", mock.Anything, order).
		Return(notify.DispatchResult{Outcome: notify.OutcomeSent, Delivered: 5, Total: 5})

	got, err := svc.CreateCheckout(ctx, 7, req)
	require.NoError(t, err)
	assert.Equal(t, int8(model.OrderStatusCommitted), got.Status)
	require.NotNil(t, got.PaymentNo)
	assert.Equal(t, "PAY-1", *got.PaymentNo)

	m.validator.AssertExpectations(t)
	m.committer.AssertExpectations(t)
	m.payment.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.dispatcher.AssertExpectations(t)
}

func TestService_CreateCheckout_ValidationStopsPipeline(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	req := validRequest()

	m.validator.On("Validate", ctx, req).Return(pkgutils.ErrAddressNotSupported)

	_, err := svc.CreateCheckout(ctx, 7, req)
	requireCode(t, err, pkgutils.CodeAddressNotSupported)

	m.committer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	m.payment.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateCheckout_PaymentFailureReleases(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	req := validRequest()
	order := pendingOrder()

	m.validator.On("Validate", ctx, req).Return(nil)
	m.committer.On("Commit", ctx, uint64(7), req).Return(order, nil)
	m.payment.On("Capture", ctx, order.ID, order.TotalPrice, req.PaymentMethod).
		Return(nil, pkgutils.ErrPaymentFailed)
	m.committer.On("Release", ctx, order).Return(nil)

	_, err := svc.CreateCheckout(ctx, 7, req)
	requireCode(t, err, pkgutils.CodePaymentFailed)

	m.committer.AssertCalled(t, "Release", ctx, order)
	m.dispatcher.AssertNotCalled(t, "DispatchOrderCreated", mock.Anything, mock.Anything)
	m.orders.AssertNotCalled(t, "MarkCommitted", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateCheckout_ReleaseFailureFlagged(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	req := validRequest()
	order := pendingOrder()
	relErr := pkgutils.ErrDatabaseError

	m.validator.On("Validate", ctx, req).Return(nil)
	m.committer.On("Commit", ctx, uint64(7), req).Return(order, nil)
	m.payment.On("Capture", ctx, order.ID, order.TotalPrice, req.PaymentMethod).
		Return(nil, pkgutils.ErrPaymentFailed)
	m.committer.On("Release", ctx, order).Return(relErr)
	m.committer.On("FlagReconciliation", ctx, order, relErr).Return()

	_, err := svc.CreateCheckout(ctx, 7, req)
	requireCode(t, err, pkgutils.CodePaymentFailed)

	m.committer.AssertCalled(t, "FlagReconciliation", ctx, order, relErr)
}

func TestService_CreateCheckout_MarkCommittedFailureFlagged(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	req := validRequest()
	order := pendingOrder()
	dbErr := pkgutils.ErrDatabaseError

	m.validator.On("Validate", ctx, req).Return(nil)
	m.committer.On("Commit", ctx, uint64(7), req).Return(order, nil)
	m.payment.On("Capture", ctx, order.ID, order.TotalPrice, req.PaymentMethod).Return(testReceipt(), nil)
	m.orders.On("MarkCommitted", ctx, order.ID, "PAY-1").Return(dbErr)
	m.committer.On("FlagReconciliation", ctx, order, dbErr).Return()
	m.dispatcher.On("DispatchOrderCreated", mock.Anything, order).
		Return(notify.DispatchResult{Outcome: notify.OutcomeSent, Delivered: 5, Total: 5})

	// money is captured, so the caller still gets a committed order;
	// the stale row is left to reconciliation
	got, err := svc.CreateCheckout(ctx, 7, req)
	require.NoError(t, err)
	assert.Equal(t, int8(model.OrderStatusCommitted), got.Status)
	m.committer.AssertCalled(t, "FlagReconciliation", ctx, order, dbErr)
}

func TestService_CreateCheckout_DispatchFailureInvisible(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	req := validRequest()
	order := pendingOrder()

	m.validator.On("Validate", ctx, req).Return(nil)
	m.committer.On("Commit", ctx, uint64(7), req).Return(order, nil)
	m.payment.On("Capture", ctx, order.ID, order.TotalPrice, req.PaymentMethod).Return(testReceipt(), nil)
	m.orders.On("MarkCommitted", ctx, order.ID, "PAY-1").Return(nil)
	m.dispatcher.On("DispatchOrderCreated", mock.Anything, order).
		Return(notify.DispatchResult{Outcome: notify.OutcomeFailed})

	got, err := svc.CreateCheckout(ctx, 7, req)
	require.NoError(t, err)
	assert.Equal(t, int8(model.OrderStatusCommitted), got.Status)
}

func TestService_GetOrder_OwnerOnly(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	order := pendingOrder()

	m.orders.On("GetByID", ctx, uint64(1001)).Return(order, nil)

	_, err := svc.GetOrder(ctx, 1001, &UserInfo{ID: 999, Role: utils.RoleCustomer})
	requireCode(t, err, pkgutils.CodeActionNotAllowed)

	got, err := svc.GetOrder(ctx, 1001, &UserInfo{ID: 7, Role: utils.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	got, err = svc.GetOrder(ctx, 1001, &UserInfo{ID: 999, Role: utils.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	got, err = svc.GetOrder(ctx, 1001, &UserInfo{ID: 42, Role: utils.RolePartner, StoreID: 3})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(ctx, 1001, &UserInfo{ID: 42, Role: utils.RolePartner, StoreID: 8})
	requireCode(t, err, pkgutils.CodeActionNotAllowed)
}

func TestService_ListOrders_Scoped(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.orders.On("ListByCustomer", ctx, uint64(7), 1, 10).
		Return([]*model.Order{pendingOrder()}, int64(1), nil)
	m.orders.On("ListByStore", ctx, uint64(3), 1, 10).
		Return([]*model.Order{pendingOrder(), pendingOrder(), pendingOrder()}, int64(3), nil)
	m.orders.On("ListAll", ctx, 1, 10).
		Return([]*model.Order{pendingOrder(), pendingOrder()}, int64(2), nil)

	orders, total, err := svc.ListOrders(ctx, &UserInfo{ID: 7, Role: utils.RoleCustomer}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	orders, total, err = svc.ListOrders(ctx, &UserInfo{ID: 42, Role: utils.RolePartner, StoreID: 3}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 3)
	m.orders.AssertNotCalled(t, "ListByCustomer", ctx, uint64(42), 1, 10)

	orders, total, err = svc.ListOrders(ctx, &UserInfo{ID: 1, Role: utils.RoleAdmin}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
}

func TestService_RefundOrder(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	order := pendingOrder()
	order.Status = model.OrderStatusCommitted
	receiptNo := "PAY-1"
	order.PaymentNo = &receiptNo

	m.orders.On("GetByID", ctx, uint64(1001)).Return(order, nil)
	m.committer.On("Release", ctx, order).Return(nil)
	m.payment.On("Refund", ctx, order.ID, "PAY-1", order.TotalPrice).Return(nil)
	m.orders.On("MarkRefunded", ctx, order.ID).Return(nil)

	err := svc.RefundOrder(ctx, 1001, &UserInfo{ID: 7, Role: utils.RoleCustomer})
	require.NoError(t, err)
	m.orders.AssertExpectations(t)
}

func TestService_RefundOrder_NotOwner(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	order := pendingOrder()
	order.Status = model.OrderStatusCommitted
	m.orders.On("GetByID", ctx, uint64(1001)).Return(order, nil)

	err := svc.RefundOrder(ctx, 1001, &UserInfo{ID: 999, Role: utils.RoleCustomer})
	requireCode(t, err, pkgutils.CodeActionNotAllowed)
}

func TestService_RefundOrder_NotCommitted(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	order := pendingOrder() // still pending
	m.orders.On("GetByID", ctx, uint64(1001)).Return(order, nil)

	err := svc.RefundOrder(ctx, 1001, &UserInfo{ID: 7, Role: utils.RoleCustomer})
	requireCode(t, err, pkgutils.CodeActionNotAllowed)
}

func TestService_RefundOrder_RestoreFailure(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	order := pendingOrder()
	order.Status = model.OrderStatusCommitted
	receiptNo := "PAY-1"
	order.PaymentNo = &receiptNo

	m.orders.On("GetByID", ctx, uint64(1001)).Return(order, nil)
	m.committer.On("Release", ctx, order).Return(pkgutils.ErrDatabaseError)
	m.orders.On("UpdateStatus", ctx, order.ID, int8(model.OrderStatusCancellationFailed)).Return(nil)

	err := svc.RefundOrder(ctx, 1001, &UserInfo{ID: 7, Role: utils.RoleCustomer})
	requireCode(t, err, pkgutils.CodeCancellationFailed)

	m.orders.AssertCalled(t, "UpdateStatus", ctx, order.ID, int8(model.OrderStatusCancellationFailed))
	m.payment.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

package payment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fooddelivery/pkg/utils"
)

// Receipt proof of a captured payment
type Receipt struct {
	ReceiptNo  string    `json:"receipt_no"`
	OrderID    uint64    `json:"order_id"`
	Amount     int64     `json:"amount"`
	Method     string    `json:"method"`
	CapturedAt time.Time `json:"captured_at"`
}

// Gateway a payment provider. Capture charges the customer, Refund
// returns the money for a previously captured receipt.
type Gateway interface {
	Capture(ctx context.Context, orderID uint64, amount int64, method string) (*Receipt, error)
	Refund(ctx context.Context, receiptNo string, amount int64) error
}

// SimulatedGateway in-process gateway used in development and tests.
// FailNext makes the next capture fail, which is how tests drive the
// compensation path.
type SimulatedGateway struct {
	mu       sync.Mutex
	failNext bool
	captured map[string]*Receipt
}

// NewSimulatedGateway create simulated gateway
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		captured: make(map[string]*Receipt),
	}
}

// FailNext make the next capture fail
func (g *SimulatedGateway) FailNext() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = true
}

// Capture simulate a successful charge
func (g *SimulatedGateway) Capture(ctx context.Context, orderID uint64, amount int64, method string) (*Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failNext {
		g.failNext = false
		return nil, utils.ErrPaymentFailed
	}

	receipt := &Receipt{
		ReceiptNo:  "PAY-" + uuid.NewString(),
		OrderID:    orderID,
		Amount:     amount,
		Method:     method,
		CapturedAt: time.Now(),
	}
	g.captured[receipt.ReceiptNo] = receipt
	return receipt, nil
}

// Refund simulate a refund for a known receipt
func (g *SimulatedGateway) Refund(ctx context.Context, receiptNo string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.captured[receiptNo]; !ok {
		return utils.ErrPaymentFailed
	}
	delete(g.captured, receiptNo)
	return nil
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fooddelivery/internal/config"
	"fooddelivery/internal/monitor"
	"fooddelivery/pkg/breaker"
	"fooddelivery/pkg/log"
	"fooddelivery/pkg/utils"
)

const receiptKeyFormat = "payment:receipt:%d"

// Adapter fronts the payment gateway with per-order idempotency and a
// circuit breaker. A repeated capture for the same order returns the
// stored receipt instead of charging twice.
type Adapter struct {
	gateway Gateway
	rdb     *redis.Client
	breaker *breaker.CircuitBreaker
	cfg     *config.PaymentConfig
}

// NewAdapter create payment adapter
func NewAdapter(gateway Gateway, rdb *redis.Client, cfg *config.PaymentConfig) *Adapter {
	cb := breaker.New("payment-gateway", breaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		Cooldown:         cfg.BreakerCooldown,
	})
	return &Adapter{
		gateway: gateway,
		rdb:     rdb,
		breaker: cb,
		cfg:     cfg,
	}
}

// Capture charge the customer for an order, at most once
func (a *Adapter) Capture(ctx context.Context, orderID uint64, amount int64, method string) (*Receipt, error) {
	key := fmt.Sprintf(receiptKeyFormat, orderID)

	// replay a stored receipt if this order was already captured
	data, err := a.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var receipt Receipt
		if err := json.Unmarshal(data, &receipt); err == nil {
			log.WithField("order_id", orderID).Info("Payment capture replayed from receipt")
			monitor.PaymentCapturesTotal.WithLabelValues("replayed").Inc()
			return &receipt, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, utils.WrapError(err, utils.CodeRedisError, "failed to load payment receipt")
	}

	var receipt *Receipt
	err = a.breaker.Execute(ctx, func() error {
		var capErr error
		receipt, capErr = a.gateway.Capture(ctx, orderID, amount, method)
		return capErr
	})
	if err != nil {
		monitor.PaymentCapturesTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, breaker.ErrOpen) {
			return nil, utils.NewError(utils.CodePaymentFailed, "payment gateway unavailable")
		}
		if appErr, ok := utils.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, utils.WrapError(err, utils.CodePaymentFailed, "payment capture failed")
	}

	payload, err := json.Marshal(receipt)
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeInternalError, "failed to encode receipt")
	}

	// SETNX keeps the first receipt if two captures raced
	ok, err := a.rdb.SetNX(ctx, key, payload, a.cfg.ReceiptTTL).Result()
	if err != nil {
		log.WithError(err).WithField("order_id", orderID).
			Warn("Failed to store payment receipt, replay disabled for this order")
	} else if !ok {
		if data, err := a.rdb.Get(ctx, key).Bytes(); err == nil {
			var stored Receipt
			if err := json.Unmarshal(data, &stored); err == nil {
				monitor.PaymentCapturesTotal.WithLabelValues("replayed").Inc()
				return &stored, nil
			}
		}
	}

	monitor.PaymentCapturesTotal.WithLabelValues("captured").Inc()
	return receipt, nil
}

// Refund return the money for a captured order and drop its receipt
func (a *Adapter) Refund(ctx context.Context, orderID uint64, receiptNo string, amount int64) error {
	err := a.breaker.Execute(ctx, func() error {
		return a.gateway.Refund(ctx, receiptNo, amount)
	})
	if err != nil {
		monitor.PaymentCapturesTotal.WithLabelValues("refund_failed").Inc()
		if appErr, ok := utils.IsAppError(err); ok {
			return appErr
		}
		return utils.WrapError(err, utils.CodePaymentFailed, "payment refund failed")
	}

	key := fmt.Sprintf(receiptKeyFormat, orderID)
	if err := a.rdb.Del(ctx, key).Err(); err != nil {
		log.WithError(err).WithField("order_id", orderID).Warn("Failed to drop payment receipt")
	}

	monitor.PaymentCapturesTotal.WithLabelValues("refunded").Inc()
	return nil
}

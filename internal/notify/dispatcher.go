package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fooddelivery/internal/config"
	"fooddelivery/internal/model"
	"fooddelivery/internal/monitor"
	"fooddelivery/pkg/log"
)

// Outcome dispatch outcome
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// DispatchResult describes what happened to one notification batch
type DispatchResult struct {
	Outcome   Outcome
	SessionID string
	Delivered int
	Total     int
}

// Dispatcher turns committed orders into notification batches and hands
// them to a channel. Dispatch never returns an error: delivery problems
// are logged and counted, the checkout that triggered them is already
// final.
type Dispatcher struct {
	channel       Channel
	sessionPrefix string
	maxBatchBytes int
	timeout       time.Duration

	newID func() string
}

// NewDispatcher create dispatcher
func NewDispatcher(channel Channel, cfg *config.QueueConfig) *Dispatcher {
	return &Dispatcher{
		channel:       channel,
		sessionPrefix: cfg.SessionPrefix,
		maxBatchBytes: cfg.MaxBatchBytes,
		timeout:       cfg.Timeout,
		newID:         uuid.NewString,
	}
}

// DispatchOrderCreated build and send the order created batch
func (d *Dispatcher) DispatchOrderCreated(ctx context.Context, order *model.Order) (result DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"order_id": order.ID,
				"panic":    r,
			}).Error("Notification dispatch panicked")
			result = DispatchResult{Outcome: OutcomeFailed, SessionID: result.SessionID}
			monitor.DispatchTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		}
	}()

	lines := buildOrderCreatedLines(order)
	batchID := d.newID()
	sessionID := d.sessionPrefix + lines[0] + "-" + batchID

	batch := NewBatch(sessionID, d.maxBatchBytes)
	wire := lines[1:]
	for i, body := range wire {
		ok := batch.TryAdd(Message{
			MessageID: batchID + strconv.Itoa(i+1),
			SessionID: sessionID,
			Body:      body,
		})
		if !ok {
			// batch is full, ship what fits
			break
		}
	}

	result = DispatchResult{
		SessionID: sessionID,
		Delivered: batch.Len(),
		Total:     len(wire),
	}

	if batch.Len() == 0 {
		result.Outcome = OutcomeFailed
		log.WithField("session_id", sessionID).Error("Notification batch accepted no messages")
		monitor.DispatchTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return result
	}

	sendCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.channel.Send(sendCtx, batch); err != nil {
		result.Outcome = OutcomeFailed
		result.Delivered = 0
		log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"order_id":   order.ID,
		}).WithError(err).Error("Notification dispatch failed")
		monitor.DispatchTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return result
	}

	if result.Delivered < result.Total {
		result.Outcome = OutcomePartial
		log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"delivered":  result.Delivered,
			"total":      result.Total,
		}).Warn("Notification batch delivered partially")
		monitor.DispatchTotal.WithLabelValues(string(OutcomePartial)).Inc()
		return result
	}

	result.Outcome = OutcomeSent
	log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   order.ID,
		"delivered":  result.Delivered,
	}).Info("Notification batch dispatched")
	monitor.DispatchTotal.WithLabelValues(string(OutcomeSent)).Inc()
	return result
}

// Close close the underlying channel
func (d *Dispatcher) Close() error {
	return d.channel.Close()
}

// buildOrderCreatedLines renders the batch content. The first line names
// the batch and feeds the session identifier, the rest go on the wire.
func buildOrderCreatedLines(order *model.Order) []string {
	return []string{
		"Order",
		"Order created",
		fmt.Sprintf("Order Id : %d", order.ID),
		fmt.Sprintf("Customer ID : %d", order.CustomerID),
		fmt.Sprintf("At : %s", order.Address),
		fmt.Sprintf("Total price : %s", order.FormatTotalPrice()),
	}
}

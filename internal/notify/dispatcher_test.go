package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddelivery/internal/config"
	"fooddelivery/internal/model"
	"fooddelivery/pkg/queue"
)

type captureChannel struct {
	batches []*Batch
	sendErr error
	panics  bool
}

func (c *captureChannel) Send(ctx context.Context, batch *Batch) error {
	if c.panics {
		panic("channel exploded")
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	c.batches = append(c.batches, batch)
	return nil
}

func (c *captureChannel) Close() error { return nil }

func testQueueConfig() *config.QueueConfig {
	return &config.QueueConfig{
		SessionPrefix: "Foodelivery-",
		MaxBatchBytes: 256 * 1024,
		Timeout:       time.Second,
	}
}

func testOrder() *model.Order {
	return &model.Order{
		ID:         1001,
		OrderNo:    "FD1001",
		CustomerID: 7,
		StoreID:    3,
		Address:    "12 Main St",
		TotalPrice: 2550,
		Status:     model.OrderStatusCommitted,
	}
}

func TestDispatcher_DispatchOrderCreated(t *testing.T) {
	ch := &captureChannel{}
	d := NewDispatcher(ch, testQueueConfig())
	d.newID = func() string { return "batch-1" }

	result := d.DispatchOrderCreated(context.Background(), testOrder())

	assert.Equal(t, OutcomeSent, result.Outcome)
	assert.Equal(t, 5, result.Delivered)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, "Foodelivery-Order-batch-1", result.SessionID)

	require.Len(t, ch.batches, 1)
	batch := ch.batches[0]
	require.Equal(t, 5, batch.Len())

	bodies := make([]string, 0, batch.Len())
	for _, m := range batch.Messages {
		assert.Equal(t, "Foodelivery-Order-batch-1", m.SessionID)
		bodies = append(bodies, m.Body)
	}
	assert.Equal(t, []string{
		"Order created",
		"Order Id : 1001",
		"Customer ID : 7",
		"At : 12 Main St",
		"Total price : 25.50",
	}, bodies)

	// message ids append the ordinal directly to the batch id
	assert.Equal(t, "batch-11", batch.Messages[0].MessageID)
	assert.Equal(t, "batch-15", batch.Messages[4].MessageID)
}

func TestDispatcher_PartialWhenBatchFills(t *testing.T) {
	ch := &captureChannel{}
	cfg := testQueueConfig()
	// room for roughly two messages
	cfg.MaxBatchBytes = 120
	d := NewDispatcher(ch, cfg)
	d.newID = func() string { return "batch-2" }

	result := d.DispatchOrderCreated(context.Background(), testOrder())

	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Less(t, result.Delivered, result.Total)
	assert.Greater(t, result.Delivered, 0)
	require.Len(t, ch.batches, 1)
	assert.Equal(t, result.Delivered, ch.batches[0].Len())
}

func TestDispatcher_SendFailureSwallowed(t *testing.T) {
	ch := &captureChannel{sendErr: errors.New("broker down")}
	d := NewDispatcher(ch, testQueueConfig())

	result := d.DispatchOrderCreated(context.Background(), testOrder())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, 0, result.Delivered)
}

func TestDispatcher_PanicRecovered(t *testing.T) {
	ch := &captureChannel{panics: true}
	d := NewDispatcher(ch, testQueueConfig())

	assert.NotPanics(t, func() {
		result := d.DispatchOrderCreated(context.Background(), testOrder())
		assert.Equal(t, OutcomeFailed, result.Outcome)
	})
}

func TestBatch_TryAddBudget(t *testing.T) {
	b := NewBatch("s", 20)

	ok := b.TryAdd(Message{MessageID: "1", SessionID: "s", Body: "short"})
	assert.True(t, ok)

	ok = b.TryAdd(Message{MessageID: "2", SessionID: "s", Body: strings.Repeat("x", 50)})
	assert.False(t, ok)
	assert.Equal(t, 1, b.Len())
}

func TestMemoryChannel_Send(t *testing.T) {
	mq, err := queue.NewMemoryQueue(nil)
	require.NoError(t, err)

	received := make(chan []byte, 1)
	err = mq.Subscribe(context.Background(), "order-notifications", func(ctx context.Context, topic string, payload []byte) error {
		received <- payload
		return nil
	})
	require.NoError(t, err)

	ch := NewMemoryChannel(mq, "order-notifications")
	defer ch.Close()

	batch := NewBatch("Foodelivery-Order-x", 0)
	batch.TryAdd(Message{MessageID: "x-1", SessionID: "Foodelivery-Order-x", Body: "Order created"})

	err = ch.Send(context.Background(), batch)
	require.NoError(t, err)

	select {
	case payload := <-received:
		var got Batch
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, "Foodelivery-Order-x", got.SessionID)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "Order created", got.Messages[0].Body)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
	}
}

package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	mq, err := NewMemoryQueue(nil)
	assert.NoError(t, err)
	defer mq.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan []byte, 1)
	err = mq.Subscribe(ctx, "notifications", func(ctx context.Context, topic string, message []byte) error {
		received <- message
		return nil
	})
	assert.NoError(t, err)

	err = mq.Publish(ctx, "notifications", []byte("order committed"))
	assert.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, []byte("order committed"), msg)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestMemoryQueue_HandlerErrorContinues(t *testing.T) {
	mq, _ := NewMemoryQueue(nil)
	defer mq.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count int64
	done := make(chan struct{})
	_ = mq.Subscribe(ctx, "t", func(ctx context.Context, topic string, message []byte) error {
		if atomic.AddInt64(&count, 1) == 2 {
			close(done)
		}
		return assert.AnError
	})

	_ = mq.Publish(ctx, "t", []byte("a"))
	_ = mq.Publish(ctx, "t", []byte("b"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not keep consuming after error")
	}
}

func TestMemoryQueue_Closed(t *testing.T) {
	mq, _ := NewMemoryQueue(nil)
	assert.NoError(t, mq.Health())

	assert.NoError(t, mq.Close())
	assert.ErrorIs(t, mq.Health(), ErrQueueClosed)
	assert.ErrorIs(t, mq.Publish(context.Background(), "t", []byte("x")), ErrQueueClosed)

	// Close is idempotent
	assert.NoError(t, mq.Close())
}

package notify

import (
	"context"
	"encoding/json"

	"fooddelivery/pkg/queue"
)

// MemoryChannel delivers batches through the in-process queue. The
// default driver for single-node deployments and tests.
type MemoryChannel struct {
	queue queue.Queue
	topic string
}

// NewMemoryChannel create memory channel
func NewMemoryChannel(q queue.Queue, topic string) *MemoryChannel {
	return &MemoryChannel{
		queue: q,
		topic: topic,
	}
}

// Send publish the batch as a single payload, all or nothing
func (c *MemoryChannel) Send(ctx context.Context, batch *Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return c.queue.Publish(ctx, c.topic, payload)
}

// Close close the underlying queue
func (c *MemoryChannel) Close() error {
	return c.queue.Close()
}

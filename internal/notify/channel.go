package notify

import (
	"context"
	"errors"
)

var (
	// ErrBatchFull adding another message would exceed the batch capacity
	ErrBatchFull = errors.New("notification batch full")
	// ErrChannelClosed channel is closed
	ErrChannelClosed = errors.New("notification channel closed")
)

// Message a single notification line addressed to a session
type Message struct {
	MessageID string `json:"message_id"`
	SessionID string `json:"session_id"`
	Body      string `json:"body"`
}

// Batch accumulates messages for one session up to a byte budget.
// TryAdd refuses messages past the budget instead of failing the whole
// batch, so an oversized batch degrades to a partial delivery.
type Batch struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`

	maxBytes int
	size     int
}

// NewBatch create a batch with the given byte budget. Zero means unbounded.
func NewBatch(sessionID string, maxBytes int) *Batch {
	return &Batch{
		SessionID: sessionID,
		maxBytes:  maxBytes,
	}
}

// TryAdd add a message if it fits, reporting whether it was taken
func (b *Batch) TryAdd(msg Message) bool {
	n := len(msg.MessageID) + len(msg.SessionID) + len(msg.Body)
	if b.maxBytes > 0 && b.size+n > b.maxBytes {
		return false
	}
	b.Messages = append(b.Messages, msg)
	b.size += n
	return true
}

// Len number of accepted messages
func (b *Batch) Len() int {
	return len(b.Messages)
}

// Channel transports notification batches to downstream consumers.
// Send delivers the whole batch or none of it.
type Channel interface {
	Send(ctx context.Context, batch *Batch) error
	Close() error
}

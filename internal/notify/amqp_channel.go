package notify

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"fooddelivery/pkg/log"
)

// AMQPChannel delivers batches over RabbitMQ. Each batch is published
// inside an AMQP transaction so a broker failure mid-batch leaves
// nothing behind.
type AMQPChannel struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
	closed     bool
}

// NewAMQPChannel connect to the broker and declare the exchange
func NewAMQPChannel(url, exchange, routingKey string) (*AMQPChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.Tx(); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enter tx mode: %w", err)
	}

	log.Infof("AMQP channel connected, exchange: %s", exchange)
	return &AMQPChannel{
		conn:       conn,
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Send publish every message of the batch, then commit
func (c *AMQPChannel) Send(ctx context.Context, batch *Batch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}

	for _, msg := range batch.Messages {
		pub := amqp.Publishing{
			ContentType:   "text/plain",
			MessageId:     msg.MessageID,
			CorrelationId: msg.SessionID,
			Body:          []byte(msg.Body),
			DeliveryMode:  amqp.Persistent,
		}
		if err := c.ch.PublishWithContext(ctx, c.exchange, c.routingKey, false, false, pub); err != nil {
			if rbErr := c.ch.TxRollback(); rbErr != nil {
				log.WithError(rbErr).Error("AMQP tx rollback failed")
			}
			return fmt.Errorf("failed to publish message %s: %w", msg.MessageID, err)
		}
	}

	if err := c.ch.TxCommit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

// Close close channel and connection
func (c *AMQPChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.ch.Close(); err != nil {
		log.WithError(err).Warn("Failed to close AMQP channel")
	}
	return c.conn.Close()
}

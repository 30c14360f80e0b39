package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
)

// Publisher confirm errors.
var (
	ErrPublishNacked  = errors.New("message was nacked by broker")
	ErrConfirmTimeout = errors.New("confirmation timed out")
	ErrClosed         = errors.New("broker is closed")
)

// DefaultConfirmTimeout bounds the wait for a broker confirmation.
const DefaultConfirmTimeout = 5 * time.Second

// RabbitMQ implements Broker on AMQP 0.9.1. Each topic maps to a durable
// fanout exchange; each subscriber gets a durable queue named
// "<topic>.<consumer>" bound to it. The publish channel runs in confirm mode
// so Publish only returns once the broker acked the message — the relay
// treats anything else as a failed attempt and retries on a later pass.
type RabbitMQ struct {
	consumer       string
	confirmTimeout time.Duration

	mu       sync.Mutex
	conn     *amqp.Connection
	pubCh    *amqp.Channel
	confirms chan amqp.Confirmation
	declared map[string]bool
	closed   bool
}

// DialRabbitMQ connects to the broker at url. consumer names this service's
// subscription queues, e.g. "payment-service".
func DialRabbitMQ(url, consumer string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	pubCh, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}

	if err := pubCh.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitMQ{
		consumer:       consumer,
		confirmTimeout: DefaultConfirmTimeout,
		conn:           conn,
		pubCh:          pubCh,
		confirms:       pubCh.NotifyPublish(make(chan amqp.Confirmation, 1)),
		declared:       make(map[string]bool),
	}, nil
}

// Publish sends payload to topic and waits for the broker confirmation.
// Confirms are processed under the lock, one in-flight publish at a time; the
// relay publishes sequentially so this does not bottleneck it.
func (r *RabbitMQ) Publish(ctx context.Context, topic, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if err := r.ensureExchange(r.pubCh, topic); err != nil {
		return err
	}

	err := r.pubCh.PublishWithContext(ctx, topic, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    key,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	select {
	case confirm, ok := <-r.confirms:
		if !ok {
			return ErrClosed
		}
		if !confirm.Ack {
			return fmt.Errorf("publish to %s: %w", topic, ErrPublishNacked)
		}
		return nil
	case <-time.After(r.confirmTimeout):
		return fmt.Errorf("publish to %s: %w", topic, ErrConfirmTimeout)
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", topic, ctx.Err())
	}
}

// Subscribe binds a durable queue to the topic exchange and feeds deliveries
// to handler on a dedicated goroutine. Handler errors nack with requeue, so a
// message is redelivered until applied — the ledger makes that safe.
func (r *RabbitMQ) Subscribe(ctx context.Context, topic string, handler Handler) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	conn := r.conn
	r.mu.Unlock()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open consume channel: %w", err)
	}

	if err := ch.ExchangeDeclare(topic, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare exchange %s: %w", topic, err)
	}

	queue := topic + "." + r.consumer
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, "", topic, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}

	deliveries, err := ch.Consume(queue, r.consumer, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume from %s: %w", queue, err)
	}

	go func() {
		defer func() { _ = ch.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				msg := Message{Key: d.MessageId, Payload: d.Body}
				if err := handler(ctx, msg); err != nil {
					logger.Warn("message handler failed, requeueing",
						zap.String("topic", topic),
						zap.String("key", msg.Key),
						zap.Error(err))
					_ = d.Nack(false, true)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// Close shuts the connection down; in-flight consumers drain their channels.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	return r.conn.Close()
}

func (r *RabbitMQ) ensureExchange(ch *amqp.Channel, topic string) error {
	if r.declared[topic] {
		return nil
	}

	if err := ch.ExchangeDeclare(topic, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", topic, err)
	}

	r.declared[topic] = true

	return nil
}

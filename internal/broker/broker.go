// Package broker abstracts the message transport between the order and
// payment services. The contract is deliberately small: publish with a
// partition key, subscribe with a handler, at-least-once delivery. Consumers
// are idempotent, so redelivery is safe by design.
package broker

import "context"

// Message is one delivered event. Key is the aggregate id the producer keyed
// the message with; Payload is the opaque event body.
type Message struct {
	Key     string
	Payload []byte
}

// Handler processes one inbound message. A non-nil error tells the transport
// the message was not applied and may be redelivered.
type Handler func(ctx context.Context, msg Message) error

// Broker is a publish/subscribe channel with at-least-once semantics.
type Broker interface {
	// Publish sends payload to topic keyed by key, returning after the broker
	// acknowledges the message or the context/send timeout expires.
	Publish(ctx context.Context, topic, key string, payload []byte) error

	// Subscribe registers handler for topic. Delivery starts immediately and
	// continues until ctx is cancelled or the broker closes.
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close tears down the transport.
	Close() error
}

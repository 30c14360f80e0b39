package broker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
)

// Memory is an in-process Broker used by tests and local single-process runs.
// Publish dispatches synchronously to every subscriber of the topic, which
// lets a whole saga round-trip run inside one test without a broker server.
//
// Handler errors are logged and swallowed rather than retried; tests exercise
// redelivery by publishing the same message again, which is exactly what
// at-least-once delivery looks like to a consumer.
type Memory struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

// NewMemory creates an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string][]Handler)}
}

// Publish delivers payload to all current subscribers of topic.
func (m *Memory) Publish(ctx context.Context, topic, key string, payload []byte) error {
	m.mu.RLock()
	handlers := append([]Handler(nil), m.subs[topic]...)
	m.mu.RUnlock()

	msg := Message{Key: key, Payload: payload}
	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			logger.Warn("in-process handler failed",
				zap.String("topic", topic),
				zap.String("key", key),
				zap.Error(err))
		}
	}

	return nil
}

// Subscribe registers handler for topic.
func (m *Memory) Subscribe(_ context.Context, topic string, handler Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[topic] = append(m.subs[topic], handler)

	return nil
}

// Close drops all subscriptions.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs = make(map[string][]Handler)

	return nil
}

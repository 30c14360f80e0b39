package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PublishReachesAllSubscribers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var got []Message
	require.NoError(t, m.Subscribe(ctx, "order-events", func(_ context.Context, msg Message) error {
		got = append(got, msg)
		return nil
	}))
	require.NoError(t, m.Subscribe(ctx, "order-events", func(_ context.Context, msg Message) error {
		got = append(got, msg)
		return nil
	}))

	require.NoError(t, m.Publish(ctx, "order-events", "ORD-1", []byte(`{"eventType":"ORDER_CREATED"}`)))

	require.Len(t, got, 2)
	assert.Equal(t, "ORD-1", got[0].Key)
	assert.Equal(t, got[0].Payload, got[1].Payload)
}

func TestMemory_TopicsAreIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	delivered := 0
	require.NoError(t, m.Subscribe(ctx, "payment-events", func(context.Context, Message) error {
		delivered++
		return nil
	}))

	require.NoError(t, m.Publish(ctx, "order-events", "ORD-1", []byte(`{}`)))
	assert.Zero(t, delivered)

	require.NoError(t, m.Publish(ctx, "payment-events", "ORD-1", []byte(`{}`)))
	assert.Equal(t, 1, delivered)
}

func TestMemory_HandlerErrorDoesNotFailPublish(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Subscribe(ctx, "order-events", func(context.Context, Message) error {
		return errors.New("boom")
	}))

	assert.NoError(t, m.Publish(ctx, "order-events", "ORD-1", []byte(`{}`)))
}

package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEventType marks payloads whose eventType tag is outside the closed
// variant set. Consumers log and skip these instead of failing, so new event
// types can be rolled out producer-first.
var ErrUnknownEventType = errors.New("unknown event type")

// Encode serializes an event to its wire form. The eventType tag travels
// inside the payload, matching what the relay forwards verbatim.
func Encode(e Event) ([]byte, error) {
	setTag(e)

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.EventType(), err)
	}

	return data, nil
}

// Decode parses a wire payload into its concrete variant. This is the single
// trust-boundary decode point; everything downstream type-switches on the
// result.
func Decode(payload []byte) (Event, error) {
	var head struct {
		Type string `json:"eventType"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	var evt Event
	switch head.Type {
	case TypeOrderCreated:
		evt = &OrderCreated{}
	case TypeOrderCancelled:
		evt = &OrderCancelled{}
	case TypeOrderShipped:
		evt = &OrderShipped{}
	case TypeOrderDelivered:
		evt = &OrderDelivered{}
	case TypePaymentCompleted:
		evt = &PaymentCompleted{}
	case TypePaymentFailed:
		evt = &PaymentFailed{}
	case TypePaymentRefunded:
		evt = &PaymentRefunded{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, head.Type)
	}

	if err := json.Unmarshal(payload, evt); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}

	return evt, nil
}

// setTag stamps the eventType tag field so callers cannot construct a variant
// whose tag disagrees with its type.
func setTag(e Event) {
	switch v := e.(type) {
	case *OrderCreated:
		v.Type = TypeOrderCreated
	case *OrderCancelled:
		v.Type = TypeOrderCancelled
	case *OrderShipped:
		v.Type = TypeOrderShipped
	case *OrderDelivered:
		v.Type = TypeOrderDelivered
	case *PaymentCompleted:
		v.Type = TypePaymentCompleted
	case *PaymentFailed:
		v.Type = TypePaymentFailed
	case *PaymentRefunded:
		v.Type = TypePaymentRefunded
	}
}

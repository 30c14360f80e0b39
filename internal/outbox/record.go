// Package outbox implements the transactional-outbox mechanics shared by both
// services: the record model, the store contract, the relay worker that drains
// undelivered rows into the broker, and the retention sweeper.
package outbox

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/order-saga-service/internal/events"
)

// ErrRecordNotFound marks lookups and row updates that matched nothing.
var ErrRecordNotFound = errors.New("outbox record not found")

// Record is one outbox row. A row is created inside the same commit as the
// business mutation it announces, flipped to delivered exactly once by the
// relay, and eventually removed by the sweeper.
type Record struct {
	EventID       string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       []byte
	Delivered     bool
	CreatedAt     time.Time
	DeliveredAt   *time.Time
	RetryCount    int64
	LastError     string
}

// FromEvent serializes a wire event into a fresh undelivered Record. A payload
// that cannot be encoded is a hard error; callers abort their unit of work so
// the event never silently vanishes.
func FromEvent(evt events.Event) (*Record, error) {
	payload, err := events.Encode(evt)
	if err != nil {
		return nil, err
	}

	return &Record{
		EventID:       uuid.New().String(),
		AggregateID:   evt.AggregateID(),
		AggregateType: evt.AggregateType(),
		EventType:     evt.EventType(),
		Payload:       payload,
	}, nil
}

// Store is the persistence contract for outbox rows. The producer side only
// uses InsertMut (so the row joins the business commit); the relay and sweeper
// use the rest, each update in its own short transaction.
type Store interface {
	// InsertMut builds the insert mutation for rec, for inclusion in the same
	// commit plan as the business mutation.
	InsertMut(rec *Record) *spanner.Mutation

	// ListPending returns undelivered rows with retryCount < maxRetry,
	// oldest first, at most limit rows.
	ListPending(ctx context.Context, maxRetry, limit int64) ([]*Record, error)

	// MarkDelivered flips one row to delivered at the given time.
	MarkDelivered(ctx context.Context, eventID string, at time.Time) error

	// RecordFailure increments the row's retry count and stores the send
	// error. It never touches delivered rows.
	RecordFailure(ctx context.Context, eventID, sendErr string) error

	// DeleteDeliveredBefore removes delivered rows older than cutoff and
	// reports how many were deleted. Undelivered rows are never touched.
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

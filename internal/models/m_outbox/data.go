package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_events table.
type Data struct {
	EventID       string             `spanner:"event_id"`
	AggregateID   string             `spanner:"aggregate_id"`
	AggregateType string             `spanner:"aggregate_type"`
	EventType     string             `spanner:"event_type"`
	Payload       spanner.NullJSON   `spanner:"payload"`
	Delivered     bool               `spanner:"delivered"`
	CreatedAt     time.Time          `spanner:"created_at"`
	DeliveredAt   spanner.NullTime   `spanner:"delivered_at"`
	RetryCount    int64              `spanner:"retry_count"`
	LastError     spanner.NullString `spanner:"last_error"`
}

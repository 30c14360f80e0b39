package m_processed_event

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the processed_events table, the
// consumer-side idempotency ledger. event_id is the primary key; the key
// uniqueness is what resolves concurrent duplicate deliveries.
type Data struct {
	EventID      string             `spanner:"event_id"`
	EventType    string             `spanner:"event_type"`
	Payload      spanner.NullJSON   `spanner:"payload"`
	Result       string             `spanner:"result"`
	ProcessedAt  time.Time          `spanner:"processed_at"`
	ErrorMessage spanner.NullString `spanner:"error_message"`
}

package m_outbox

// Field name constants for the outbox_events table.
const (
	TableName = "outbox_events"

	EventID       = "event_id"
	AggregateID   = "aggregate_id"
	AggregateType = "aggregate_type"
	EventType     = "event_type"
	Payload       = "payload"
	Delivered     = "delivered"
	CreatedAt     = "created_at"
	DeliveredAt   = "delivered_at"
	RetryCount    = "retry_count"
	LastError     = "last_error"
)

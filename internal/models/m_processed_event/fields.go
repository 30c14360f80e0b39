package m_processed_event

// Field name constants for the processed_events table.
const (
	TableName = "processed_events"

	EventID      = "event_id"
	EventType    = "event_type"
	Payload      = "payload"
	Result       = "result"
	ProcessedAt  = "processed_at"
	ErrorMessage = "error_message"
)

// Processing result constants.
const (
	ResultProcessing = "PROCESSING"
	ResultSuccess    = "SUCCESS"
	ResultFailed     = "FAILED"
)

package m_processed_event

import (
	"cloud.google.com/go/spanner"
)

// Model provides type-safe mutation builders for the processed_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a ledger row. The insert fails
// with AlreadyExists when the event id was claimed before; callers translate
// that into "already processed".
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			EventID,
			EventType,
			Payload,
			Result,
			ProcessedAt,
			ErrorMessage,
		},
		[]interface{}{
			data.EventID,
			data.EventType,
			data.Payload,
			data.Result,
			spanner.CommitTimestamp,
			data.ErrorMessage,
		},
	)
}

// UpdateMut creates a mutation updating the given columns of one ledger row.
func (m *Model) UpdateMut(eventID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, EventID)
	values = append(values, eventID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

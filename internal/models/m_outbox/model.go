package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model provides type-safe mutation builders for the outbox_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting an outbox event. CreatedAt is
// always the commit timestamp so the relay's oldest-first scan follows commit
// order.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			EventID,
			AggregateID,
			AggregateType,
			EventType,
			Payload,
			Delivered,
			CreatedAt,
			DeliveredAt,
			RetryCount,
			LastError,
		},
		[]interface{}{
			data.EventID,
			data.AggregateID,
			data.AggregateType,
			data.EventType,
			data.Payload,
			data.Delivered,
			spanner.CommitTimestamp,
			data.DeliveredAt,
			data.RetryCount,
			data.LastError,
		},
	)
}

// UpdateMut creates a mutation updating the given columns of one event row.
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

// DeleteMut creates a mutation for deleting one event row.
func (m *Model) DeleteMut(eventID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{eventID})
}

package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/order-saga-service/internal/models/m_outbox"
)

// SpannerStore implements Store on Cloud Spanner.
type SpannerStore struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewSpannerStore creates a SpannerStore bound to client.
func NewSpannerStore(client *spanner.Client) *SpannerStore {
	return &SpannerStore{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

// InsertMut builds the insert mutation for rec.
func (s *SpannerStore) InsertMut(rec *Record) *spanner.Mutation {
	data := &m_outbox.Data{
		EventID:       rec.EventID,
		AggregateID:   rec.AggregateID,
		AggregateType: rec.AggregateType,
		EventType:     rec.EventType,
		Payload:       spanner.NullJSON{Value: json.RawMessage(rec.Payload), Valid: len(rec.Payload) > 0},
		Delivered:     false,
		RetryCount:    0,
	}

	return s.model.InsertMut(data)
}

// ListPending returns undelivered rows below the retry ceiling, oldest first.
func (s *SpannerStore) ListPending(ctx context.Context, maxRetry, limit int64) ([]*Record, error) {
	stmt := spanner.Statement{
		SQL: `SELECT event_id, aggregate_id, aggregate_type, event_type, payload,
		             delivered, created_at, delivered_at, retry_count, last_error
		      FROM outbox_events
		      WHERE delivered = false AND retry_count < @maxRetry
		      ORDER BY created_at ASC
		      LIMIT @limit`,
		Params: map[string]interface{}{
			"maxRetry": maxRetry,
			"limit":    limit,
		},
	}

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	records := make([]*Record, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query pending outbox rows: %w", err)
		}

		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("parse outbox row: %w", err)
		}

		rec, err := dataToRecord(&data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// MarkDelivered flips one row to delivered in its own short transaction.
func (s *SpannerStore) MarkDelivered(ctx context.Context, eventID string, at time.Time) error {
	mut := s.model.UpdateMut(eventID, map[string]interface{}{
		m_outbox.Delivered:   true,
		m_outbox.DeliveredAt: at,
	})

	if _, err := s.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		return fmt.Errorf("mark outbox row %s delivered: %w", eventID, err)
	}

	return nil
}

// RecordFailure bumps the retry count and stores the send error. The DML is
// guarded on delivered = false so a lost acknowledgement can never regress a
// delivered row's bookkeeping.
func (s *SpannerStore) RecordFailure(ctx context.Context, eventID, sendErr string) error {
	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		stmt := spanner.Statement{
			SQL: `UPDATE outbox_events
			      SET retry_count = retry_count + 1, last_error = @sendErr
			      WHERE event_id = @eventID AND delivered = false`,
			Params: map[string]interface{}{
				"eventID": eventID,
				"sendErr": sendErr,
			},
		}

		n, err := txn.Update(ctx, stmt)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record outbox failure for %s: %w", eventID, err)
	}

	return nil
}

// DeleteDeliveredBefore removes delivered rows older than cutoff.
func (s *SpannerStore) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64

	_, err := s.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		stmt := spanner.Statement{
			SQL: `DELETE FROM outbox_events
			      WHERE delivered = true AND delivered_at < @cutoff`,
			Params: map[string]interface{}{"cutoff": cutoff},
		}

		n, err := txn.Update(ctx, stmt)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete delivered outbox rows: %w", err)
	}

	return deleted, nil
}

func dataToRecord(data *m_outbox.Data) (*Record, error) {
	rec := &Record{
		EventID:       data.EventID,
		AggregateID:   data.AggregateID,
		AggregateType: data.AggregateType,
		EventType:     data.EventType,
		Delivered:     data.Delivered,
		CreatedAt:     data.CreatedAt,
		RetryCount:    data.RetryCount,
	}

	if data.Payload.Valid {
		payload, err := json.Marshal(data.Payload.Value)
		if err != nil {
			return nil, fmt.Errorf("re-encode payload for %s: %w", data.EventID, err)
		}
		rec.Payload = payload
	}

	if data.DeliveredAt.Valid {
		at := data.DeliveredAt.Time
		rec.DeliveredAt = &at
	}

	if data.LastError.Valid {
		rec.LastError = data.LastError.StringVal
	}

	return rec, nil
}

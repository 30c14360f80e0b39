package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/order-saga-service/internal/models/m_processed_event"
)

// SpannerStore implements Store on Cloud Spanner. The processed_events
// primary key is the event id, so the duplicate-claim race collapses into an
// AlreadyExists error from the commit.
type SpannerStore struct {
	client *spanner.Client
	model  *m_processed_event.Model
}

// NewSpannerStore creates a SpannerStore bound to client.
func NewSpannerStore(client *spanner.Client) *SpannerStore {
	return &SpannerStore{
		client: client,
		model:  m_processed_event.NewModel(),
	}
}

// Claim inserts the PROCESSING row for eventID.
func (s *SpannerStore) Claim(ctx context.Context, eventID, eventType string, payload []byte) error {
	data := &m_processed_event.Data{
		EventID:   eventID,
		EventType: eventType,
		Payload:   spanner.NullJSON{Value: json.RawMessage(payload), Valid: len(payload) > 0},
		Result:    m_processed_event.ResultProcessing,
	}

	_, err := s.client.Apply(ctx, []*spanner.Mutation{s.model.InsertMut(data)})
	if err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return ErrAlreadyProcessed
		}
		return fmt.Errorf("claim event %s: %w", eventID, err)
	}

	return nil
}

// MarkResult records the outcome of the claimed event.
func (s *SpannerStore) MarkResult(ctx context.Context, eventID, result, errMsg string) error {
	updates := map[string]interface{}{
		m_processed_event.Result: result,
	}
	if errMsg != "" {
		updates[m_processed_event.ErrorMessage] = errMsg
	}

	mut := s.model.UpdateMut(eventID, updates)

	if _, err := s.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return ErrRecordNotFound
		}
		return fmt.Errorf("mark event %s %s: %w", eventID, result, err)
	}

	return nil
}

// Get fetches one ledger row.
func (s *SpannerStore) Get(ctx context.Context, eventID string) (*Record, error) {
	row, err := s.client.Single().ReadRow(ctx, m_processed_event.TableName, spanner.Key{eventID}, []string{
		m_processed_event.EventID,
		m_processed_event.EventType,
		m_processed_event.Payload,
		m_processed_event.Result,
		m_processed_event.ProcessedAt,
		m_processed_event.ErrorMessage,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("read processed event %s: %w", eventID, err)
	}

	var data m_processed_event.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("parse processed event %s: %w", eventID, err)
	}

	rec := &Record{
		EventID:     data.EventID,
		EventType:   data.EventType,
		Result:      data.Result,
		ProcessedAt: data.ProcessedAt,
	}

	if data.Payload.Valid {
		payload, err := json.Marshal(data.Payload.Value)
		if err != nil {
			return nil, fmt.Errorf("re-encode payload for %s: %w", eventID, err)
		}
		rec.Payload = payload
	}

	if data.ErrorMessage.Valid {
		rec.ErrorMessage = data.ErrorMessage.StringVal
	}

	return rec, nil
}

// Package ledger implements the consumer-side idempotency ledger: a durable
// record of inbound event ids that have already been applied, which turns
// at-least-once delivery into at-most-once application.
package ledger

import (
	"context"
	"errors"
	"time"
)

// Ledger errors.
var (
	// ErrAlreadyProcessed means the event id was claimed before. Consumers
	// treat this as a successful no-op, not a failure.
	ErrAlreadyProcessed = errors.New("event already processed")

	// ErrRecordNotFound marks result updates for an unclaimed event id.
	ErrRecordNotFound = errors.New("processed event record not found")
)

// Processing results.
const (
	ResultProcessing = "PROCESSING"
	ResultSuccess    = "SUCCESS"
	ResultFailed     = "FAILED"
)

// Record is one ledger row: at most one per event id, never deleted by this
// subsystem.
type Record struct {
	EventID      string
	EventType    string
	Payload      []byte
	Result       string
	ProcessedAt  time.Time
	ErrorMessage string
}

// Store is the ledger persistence contract.
type Store interface {
	// Claim inserts a PROCESSING row for eventID before the side-effecting
	// work begins. Two racing deliveries of the same id are resolved by the
	// row's uniqueness: the loser gets ErrAlreadyProcessed.
	Claim(ctx context.Context, eventID, eventType string, payload []byte) error

	// MarkResult updates the claimed row to SUCCESS or FAILED once the work
	// completed. errMsg is stored for FAILED results.
	MarkResult(ctx context.Context, eventID, result, errMsg string) error

	// Get fetches one ledger row.
	Get(ctx context.Context, eventID string) (*Record, error)
}

package contracts

import (
	"context"

	"github.com/shopspring/decimal"
)

// Authorization is the gateway's verdict on a charge attempt. A declined
// authorization is a business outcome, not an error; errors are reserved for
// the gateway itself being unreachable.
type Authorization struct {
	Approved      bool
	TransactionID string
	DeclineReason string
}

// Gateway charges customers. Implementations decide approval and mint the
// transaction id.
type Gateway interface {
	Authorize(ctx context.Context, orderNumber string, amount decimal.Decimal) (*Authorization, error)
}

package m_payment

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the payments table.
type Data struct {
	PaymentID     string             `spanner:"payment_id"`
	PaymentNumber string             `spanner:"payment_number"`
	OrderID       string             `spanner:"order_id"`
	OrderNumber   string             `spanner:"order_number"`
	Amount        big.Rat            `spanner:"amount"`
	CustomerName  string             `spanner:"customer_name"`
	CustomerEmail string             `spanner:"customer_email"`
	Status        string             `spanner:"status"`
	PaymentMethod string             `spanner:"payment_method"`
	TransactionID string             `spanner:"transaction_id"`
	FailureReason spanner.NullString `spanner:"failure_reason"`
	CreatedAt     time.Time          `spanner:"created_at"`
	UpdatedAt     time.Time          `spanner:"updated_at"`
}

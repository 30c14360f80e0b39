package m_payment

import (
	"cloud.google.com/go/spanner"
)

// Model provides type-safe mutation builders for the payments table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a new payment.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			PaymentID,
			PaymentNumber,
			OrderID,
			OrderNumber,
			Amount,
			CustomerName,
			CustomerEmail,
			Status,
			PaymentMethod,
			TransactionID,
			FailureReason,
			CreatedAt,
			UpdatedAt,
		},
		[]interface{}{
			data.PaymentID,
			data.PaymentNumber,
			data.OrderID,
			data.OrderNumber,
			data.Amount,
			data.CustomerName,
			data.CustomerEmail,
			data.Status,
			data.PaymentMethod,
			data.TransactionID,
			data.FailureReason,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a mutation updating the given columns of one payment row.
func (m *Model) UpdateMut(paymentID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, PaymentID)
	values = append(values, paymentID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

package m_order

import (
	"cloud.google.com/go/spanner"
)

// Model provides type-safe mutation builders for the orders table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a new order.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			OrderID,
			OrderNumber,
			ProductName,
			Quantity,
			Price,
			TotalAmount,
			CustomerName,
			CustomerEmail,
			Status,
			CreatedAt,
			UpdatedAt,
		},
		[]interface{}{
			data.OrderID,
			data.OrderNumber,
			data.ProductName,
			data.Quantity,
			data.Price,
			data.TotalAmount,
			data.CustomerName,
			data.CustomerEmail,
			data.Status,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a mutation updating the given columns of one order row.
func (m *Model) UpdateMut(orderID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, OrderID)
	values = append(values, orderID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

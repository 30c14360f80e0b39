package m_order

import (
	"math/big"
	"time"
)

// Data represents the database model for the orders table. Money columns are
// Spanner NUMERIC, surfaced as big.Rat by the client.
type Data struct {
	OrderID       string    `spanner:"order_id"`
	OrderNumber   string    `spanner:"order_number"`
	ProductName   string    `spanner:"product_name"`
	Quantity      int64     `spanner:"quantity"`
	Price         big.Rat   `spanner:"price"`
	TotalAmount   big.Rat   `spanner:"total_amount"`
	CustomerName  string    `spanner:"customer_name"`
	CustomerEmail string    `spanner:"customer_email"`
	Status        string    `spanner:"status"`
	CreatedAt     time.Time `spanner:"created_at"`
	UpdatedAt     time.Time `spanner:"updated_at"`
}

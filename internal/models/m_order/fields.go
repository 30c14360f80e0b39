package m_order

// Field name constants for the orders table.
const (
	TableName = "orders"

	OrderID       = "order_id"
	OrderNumber   = "order_number"
	ProductName   = "product_name"
	Quantity      = "quantity"
	Price         = "price"
	TotalAmount   = "total_amount"
	CustomerName  = "customer_name"
	CustomerEmail = "customer_email"
	Status        = "status"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)

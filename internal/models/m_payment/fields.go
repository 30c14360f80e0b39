package m_payment

// Field name constants for the payments table.
const (
	TableName = "payments"

	PaymentID     = "payment_id"
	PaymentNumber = "payment_number"
	OrderID       = "order_id"
	OrderNumber   = "order_number"
	Amount        = "amount"
	CustomerName  = "customer_name"
	CustomerEmail = "customer_email"
	Status        = "status"
	PaymentMethod = "payment_method"
	TransactionID = "transaction_id"
	FailureReason = "failure_reason"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)

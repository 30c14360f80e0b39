// Package repo contains the Spanner-backed repositories for the order service.
package repo

import (
	"context"
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/order-saga-service/internal/app/order/domain"
	"github.com/light-bringer/order-saga-service/internal/models/m_order"
)

// numericScale matches the scale of Spanner NUMERIC columns.
const numericScale = 9

// OrderRepo is the Spanner implementation of contracts.OrderRepo.
type OrderRepo struct {
	client *spanner.Client
	model  *m_order.Model
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(client *spanner.Client) *OrderRepo {
	return &OrderRepo{
		client: client,
		model:  m_order.NewModel(),
	}
}

// InsertMut returns the mutation inserting a new order.
func (r *OrderRepo) InsertMut(o *domain.Order) *spanner.Mutation {
	return r.model.InsertMut(toData(o))
}

// UpdateMut returns the mutation persisting the order's dirty fields, or nil
// when nothing changed.
func (r *OrderRepo) UpdateMut(o *domain.Order) *spanner.Mutation {
	if !o.Changes().HasChanges() {
		return nil
	}

	updates := map[string]interface{}{
		m_order.UpdatedAt: o.UpdatedAt(),
	}

	if o.Changes().Dirty(domain.FieldStatus) {
		updates[m_order.Status] = string(o.Status())
	}

	return r.model.UpdateMut(o.ID(), updates)
}

// GetByNumber loads an order by its business number.
func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	stmt := spanner.Statement{
		SQL: `SELECT order_id, order_number, product_name, quantity, price, total_amount,
		             customer_name, customer_email, status, created_at, updated_at
		      FROM orders
		      WHERE order_number = @orderNumber`,
		Params: map[string]interface{}{
			"orderNumber": orderNumber,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order %s: %w", orderNumber, err)
	}

	var data m_order.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("scan order %s: %w", orderNumber, err)
	}

	return fromData(&data), nil
}

func toData(o *domain.Order) *m_order.Data {
	return &m_order.Data{
		OrderID:       o.ID(),
		OrderNumber:   o.OrderNumber(),
		ProductName:   o.ProductName(),
		Quantity:      o.Quantity(),
		Price:         *o.Price().Rat(),
		TotalAmount:   *o.TotalAmount().Rat(),
		CustomerName:  o.CustomerName(),
		CustomerEmail: o.CustomerEmail(),
		Status:        string(o.Status()),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func fromData(data *m_order.Data) *domain.Order {
	return domain.ReconstructOrder(
		data.OrderID,
		data.OrderNumber,
		data.ProductName,
		data.Quantity,
		ratToDecimal(&data.Price),
		ratToDecimal(&data.TotalAmount),
		data.CustomerName,
		data.CustomerEmail,
		domain.OrderStatus(data.Status),
		data.CreatedAt,
		data.UpdatedAt,
	)
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	return decimal.NewFromBigRat(r, numericScale)
}

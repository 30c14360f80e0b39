// Package repo contains the Spanner-backed repositories for the payment
// service.
package repo

import (
	"context"
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/order-saga-service/internal/app/payment/domain"
	"github.com/light-bringer/order-saga-service/internal/models/m_payment"
)

// numericScale matches the scale of Spanner NUMERIC columns.
const numericScale = 9

const selectColumns = `payment_id, payment_number, order_id, order_number, amount,
       customer_name, customer_email, status, payment_method,
       transaction_id, failure_reason, created_at, updated_at`

// PaymentRepo is the Spanner implementation of contracts.PaymentRepo.
type PaymentRepo struct {
	client *spanner.Client
	model  *m_payment.Model
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(client *spanner.Client) *PaymentRepo {
	return &PaymentRepo{
		client: client,
		model:  m_payment.NewModel(),
	}
}

// InsertMut returns the mutation inserting a new payment.
func (r *PaymentRepo) InsertMut(p *domain.Payment) *spanner.Mutation {
	return r.model.InsertMut(toData(p))
}

// UpdateMut returns the mutation persisting the payment's dirty fields, or
// nil when nothing changed.
func (r *PaymentRepo) UpdateMut(p *domain.Payment) *spanner.Mutation {
	if !p.Changes().HasChanges() {
		return nil
	}

	updates := map[string]interface{}{
		m_payment.UpdatedAt: p.UpdatedAt(),
	}

	if p.Changes().Dirty(domain.FieldStatus) {
		updates[m_payment.Status] = string(p.Status())
	}

	if p.Changes().Dirty(domain.FieldTransactionID) {
		updates[m_payment.TransactionID] = p.TransactionID()
	}

	if p.Changes().Dirty(domain.FieldFailureReason) {
		updates[m_payment.FailureReason] = spanner.NullString{StringVal: p.FailureReason(), Valid: true}
	}

	return r.model.UpdateMut(p.ID(), updates)
}

// GetByNumber loads a payment by its business number.
func (r *PaymentRepo) GetByNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error) {
	return r.getOne(ctx, spanner.Statement{
		SQL: `SELECT ` + selectColumns + ` FROM payments WHERE payment_number = @num`,
		Params: map[string]interface{}{
			"num": paymentNumber,
		},
	})
}

// GetByOrderNumber loads the payment settling the given order.
func (r *PaymentRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Payment, error) {
	return r.getOne(ctx, spanner.Statement{
		SQL: `SELECT ` + selectColumns + ` FROM payments WHERE order_number = @num`,
		Params: map[string]interface{}{
			"num": orderNumber,
		},
	})
}

func (r *PaymentRepo) getOne(ctx context.Context, stmt spanner.Statement) (*domain.Payment, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query payment: %w", err)
	}

	var data m_payment.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	return fromData(&data), nil
}

func toData(p *domain.Payment) *m_payment.Data {
	return &m_payment.Data{
		PaymentID:     p.ID(),
		PaymentNumber: p.PaymentNumber(),
		OrderID:       p.OrderID(),
		OrderNumber:   p.OrderNumber(),
		Amount:        *p.Amount().Rat(),
		CustomerName:  p.CustomerName(),
		CustomerEmail: p.CustomerEmail(),
		Status:        string(p.Status()),
		PaymentMethod: string(p.Method()),
		TransactionID: p.TransactionID(),
		FailureReason: spanner.NullString{StringVal: p.FailureReason(), Valid: p.FailureReason() != ""},
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func fromData(data *m_payment.Data) *domain.Payment {
	return domain.ReconstructPayment(
		data.PaymentID,
		data.PaymentNumber,
		data.OrderID,
		data.OrderNumber,
		ratToDecimal(&data.Amount),
		domain.PaymentMethod(data.PaymentMethod),
		data.CustomerName,
		data.CustomerEmail,
		domain.PaymentStatus(data.Status),
		data.TransactionID,
		data.FailureReason.StringVal,
		data.CreatedAt,
		data.UpdatedAt,
	)
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	return decimal.NewFromBigRat(r, numericScale)
}

//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/order-saga-service/internal/app/order/domain"
	"github.com/light-bringer/order-saga-service/internal/app/order/repo"
	"github.com/light-bringer/order-saga-service/tests/testutil"
)

func storedOrder(t *testing.T, client *spanner.Client, r *repo.OrderRepo) *domain.Order {
	t.Helper()

	order, err := domain.NewOrder(
		"ord-id-1", "ORD-AB12CD34", "Widget",
		3, decimal.RequireFromString("9.99"),
		"Alice", "alice@example.com", time.Now().UTC().Truncate(time.Microsecond),
	)
	require.NoError(t, err)

	_, err = client.Apply(context.Background(), []*spanner.Mutation{r.InsertMut(order)})
	require.NoError(t, err)

	return order
}

func TestOrderRepo_RoundTrip(t *testing.T) {
	client, cleanup := testutil.Setup(t, testutil.OrderDB(), testutil.OrderTables)
	defer cleanup()

	r := repo.NewOrderRepo(client)
	stored := storedOrder(t, client, r)

	loaded, err := r.GetByNumber(context.Background(), "ORD-AB12CD34")
	require.NoError(t, err)

	assert.Equal(t, stored.ID(), loaded.ID())
	assert.Equal(t, stored.OrderNumber(), loaded.OrderNumber())
	assert.Equal(t, stored.Quantity(), loaded.Quantity())
	assert.True(t, loaded.Price().Equal(decimal.RequireFromString("9.99")))
	assert.True(t, loaded.TotalAmount().Equal(decimal.RequireFromString("29.97")))
	assert.Equal(t, domain.StatusPending, loaded.Status())
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	client, cleanup := testutil.Setup(t, testutil.OrderDB(), testutil.OrderTables)
	defer cleanup()

	r := repo.NewOrderRepo(client)
	storedOrder(t, client, r)

	ctx := context.Background()

	order, err := r.GetByNumber(ctx, "ORD-AB12CD34")
	require.NoError(t, err)

	require.NoError(t, order.Cancel("payment failed", time.Now().UTC().Truncate(time.Microsecond)))

	_, err = client.Apply(ctx, []*spanner.Mutation{r.UpdateMut(order)})
	require.NoError(t, err)

	reloaded, err := r.GetByNumber(ctx, "ORD-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, reloaded.Status())
}

func TestOrderRepo_NotFound(t *testing.T) {
	client, cleanup := testutil.Setup(t, testutil.OrderDB(), testutil.OrderTables)
	defer cleanup()

	r := repo.NewOrderRepo(client)

	_, err := r.GetByNumber(context.Background(), "ORD-MISSING1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

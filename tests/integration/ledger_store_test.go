//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/tests/testutil"
)

func TestLedgerStore_ClaimOnce(t *testing.T) {
	client, cleanup := testutil.Setup(t, testutil.PaymentDB(), testutil.PaymentTables)
	defer cleanup()

	store := ledger.NewSpannerStore(client)
	ctx := context.Background()

	payload := []byte(`{"eventType":"ORDER_CREATED","orderNumber":"ORD-AAAA0001"}`)

	require.NoError(t, store.Claim(ctx, "ORD-AAAA0001", "ORDER_CREATED", payload))

	row, err := store.Get(ctx, "ORD-AAAA0001")
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultProcessing, row.Result)
	assert.Equal(t, "ORDER_CREATED", row.EventType)

	// Second claim of the same event id loses.
	err = store.Claim(ctx, "ORD-AAAA0001", "ORDER_CREATED", payload)
	assert.ErrorIs(t, err, ledger.ErrAlreadyProcessed)
}

func TestLedgerStore_MarkResult(t *testing.T) {
	client, cleanup := testutil.Setup(t, testutil.PaymentDB(), testutil.PaymentTables)
	defer cleanup()

	store := ledger.NewSpannerStore(client)
	ctx := context.Background()

	require.NoError(t, store.Claim(ctx, "ORD-AAAA0001", "ORDER_CREATED", nil))
	require.NoError(t, store.MarkResult(ctx, "ORD-AAAA0001", ledger.ResultSuccess, ""))

	row, err := store.Get(ctx, "ORD-AAAA0001")
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultSuccess, row.Result)

	require.NoError(t, store.Claim(ctx, "ORD-AAAA0002", "ORDER_CREATED", nil))
	require.NoError(t, store.MarkResult(ctx, "ORD-AAAA0002", ledger.ResultFailed, "gateway unreachable"))

	row, err = store.Get(ctx, "ORD-AAAA0002")
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultFailed, row.Result)
	assert.Equal(t, "gateway unreachable", row.ErrorMessage)
}

func TestLedgerStore_GetMissing(t *testing.T) {
	client, cleanup := testutil.Setup(t, testutil.PaymentDB(), testutil.PaymentTables)
	defer cleanup()

	store := ledger.NewSpannerStore(client)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ledger.ErrRecordNotFound)
}

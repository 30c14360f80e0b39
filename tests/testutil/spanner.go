// Package testutil holds shared helpers for integration and e2e tests running
// against the Spanner emulator.
package testutil

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
)

// Table sets cleaned between tests.
var (
	OrderTables   = []string{"outbox_events", "processed_events", "orders"}
	PaymentTables = []string{"outbox_events", "processed_events", "payments"}
)

// OrderDB returns the order service test database path.
func OrderDB() string {
	if db := os.Getenv("ORDER_TEST_DB"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/order-test"
}

// PaymentDB returns the payment service test database path.
func PaymentDB() string {
	if db := os.Getenv("PAYMENT_TEST_DB"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/payment-test"
}

// Setup creates a Spanner client against the emulator and wipes the given
// tables before and after the test. Tests are skipped when no emulator is
// configured.
func Setup(t *testing.T, db string, tables []string) (*spanner.Client, func()) {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	ctx := context.Background()

	client, err := spanner.NewClient(ctx, db)
	require.NoError(t, err, "create Spanner client")

	CleanTables(t, client, tables)

	cleanup := func() {
		CleanTables(t, client, tables)
		client.Close()
	}

	return client, cleanup
}

// CleanTables truncates the given tables for test isolation.
func CleanTables(t *testing.T, client *spanner.Client, tables []string) {
	t.Helper()

	mutations := make([]*spanner.Mutation, 0, len(tables))
	for _, table := range tables {
		mutations = append(mutations, spanner.Delete(table, spanner.AllKeys()))
	}

	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "clean tables")
}

// CountRows returns the number of rows in a table.
func CountRows(t *testing.T, client *spanner.Client, table string) int64 {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: "SELECT COUNT(*) FROM " + table,
	})
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return 0
	}
	require.NoError(t, err, "count rows")

	var count int64
	require.NoError(t, row.Columns(&count))

	return count
}

// Command check-outbox inspects an outbox table for rows that need operator
// attention: rows at the retry ceiling, which the relay no longer touches, and
// undelivered rows older than a threshold.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
)

func main() {
	var (
		db       = flag.String("database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
		maxRetry = flag.Int64("max-retry", 5, "Retry ceiling used by the relay")
		stuckAge = flag.Duration("stuck-age", 10*time.Minute, "Age after which an undelivered row counts as stuck")
	)
	flag.Parse()

	if *db == "" {
		log.Fatal("Error: -database flag is required")
	}

	ctx := context.Background()

	client, err := spanner.NewClient(ctx, *db)
	if err != nil {
		log.Fatalf("Failed to create Spanner client: %v", err)
	}
	defer client.Close()

	exhausted, err := report(ctx, client, *maxRetry, *stuckAge)
	if err != nil {
		log.Fatalf("Check failed: %v", err)
	}

	if exhausted > 0 {
		os.Exit(1)
	}
}

func report(ctx context.Context, client *spanner.Client, maxRetry int64, stuckAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-stuckAge)

	stmt := spanner.Statement{
		SQL: `SELECT event_id, aggregate_id, event_type, retry_count, last_error, created_at
		      FROM outbox_events
		      WHERE delivered = false AND (retry_count >= @maxRetry OR created_at < @cutoff)
		      ORDER BY created_at ASC`,
		Params: map[string]interface{}{
			"maxRetry": maxRetry,
			"cutoff":   cutoff,
		},
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var exhausted, stuck int64
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("query outbox: %w", err)
		}

		var (
			eventID, aggregateID, eventType string
			retryCount                      int64
			lastError                       spanner.NullString
			createdAt                       time.Time
		)
		if err := row.Columns(&eventID, &aggregateID, &eventType, &retryCount, &lastError, &createdAt); err != nil {
			return 0, fmt.Errorf("parse row: %w", err)
		}

		state := "stuck"
		if retryCount >= maxRetry {
			state = "exhausted"
			exhausted++
		} else {
			stuck++
		}

		log.Printf("[%s] %s %s aggregate=%s retries=%d age=%s last_error=%q",
			state, eventID, eventType, aggregateID, retryCount,
			time.Since(createdAt).Round(time.Second), lastError.StringVal)
	}

	log.Printf("Summary: %d exhausted, %d stuck", exhausted, stuck)

	return exhausted, nil
}

// Command cleanup-outbox removes delivered outbox rows past retention. The
// services run the same sweep in-process; this tool exists for ad-hoc and
// cron-driven cleanup with a dry-run mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/order-saga-service/internal/outbox"
)

func main() {
	var (
		db            = flag.String("database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
		retentionDays = flag.Int("retention", 7, "Retention days for delivered events")
		dryRun        = flag.Bool("dry-run", false, "Show what would be deleted without deleting")
	)
	flag.Parse()

	if *db == "" {
		log.Fatal("Error: -database flag is required")
	}

	ctx := context.Background()

	if err := cleanup(ctx, *db, *retentionDays, *dryRun); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
}

func cleanup(ctx context.Context, db string, retentionDays int, dryRun bool) error {
	client, err := spanner.NewClient(ctx, db)
	if err != nil {
		return fmt.Errorf("create Spanner client: %w", err)
	}
	defer client.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	log.Printf("Delivered events cutoff: %s (retention: %d days)", cutoff.Format(time.RFC3339), retentionDays)

	if dryRun {
		count, err := countDeletable(ctx, client, cutoff)
		if err != nil {
			return err
		}
		log.Printf("DRY RUN: would delete %d delivered events", count)
		return nil
	}

	deleted, err := outbox.NewSpannerStore(client).DeleteDeliveredBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete delivered events: %w", err)
	}

	log.Printf("Deleted %d delivered events", deleted)
	return nil
}

func countDeletable(ctx context.Context, client *spanner.Client, cutoff time.Time) (int64, error) {
	stmt := spanner.Statement{
		SQL: `SELECT COUNT(*) FROM outbox_events WHERE delivered = true AND delivered_at < @cutoff`,
		Params: map[string]interface{}{
			"cutoff": cutoff,
		},
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count deletable events: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}

	return count, nil
}

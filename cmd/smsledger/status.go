package main

import (
	"context"
	"fmt"
	"time"

	"github.com/adikhanna/smsledger/pkg/config"
	"github.com/adikhanna/smsledger/pkg/store/sqlite"
)

// runStatus prints the sync watermark and recent pass outcomes.
func runStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening sqlite store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	fmt.Println("=== smsledger status ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DBPath)

	watermark, ok, err := db.Watermark(ctx)
	if err != nil {
		return fmt.Errorf("reading watermark: %w", err)
	}
	if !ok {
		fmt.Println("Watermark: not set (no pass has completed)")
	} else {
		fmt.Printf("Watermark: %s\n", time.UnixMilli(watermark).Format(time.RFC3339))
	}

	entries, err := db.RecentSyncLog(ctx, 10)
	if err != nil {
		return fmt.Errorf("reading sync log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Sync log: empty")
		return nil
	}

	fmt.Println()
	fmt.Println("Recent passes:")
	for _, entry := range entries {
		fmt.Printf("  %s  fetched=%d accepted=%d persisted=%d duplicates=%d failed=%d  (%s)\n",
			entry.StartedAt.Format("2006-01-02 15:04:05"),
			entry.Fetched, entry.Accepted, entry.Persisted, entry.Duplicates, entry.Failed,
			entry.PassID,
		)
	}

	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/pmehta/ratewatch/internal/config"
	"github.com/pmehta/ratewatch/internal/logging"
	"github.com/pmehta/ratewatch/internal/report"
	sqlstore "github.com/pmehta/ratewatch/internal/storage/sqlite"
)

func main() {
	godotenv.Load()
	logging.InitFromEnv()
	recent := flag.Int("recent", 0, "also print the N most recent archived snapshots")
	flag.Parse()

	cfg := config.FromEnv()
	if cfg.ArchiveDB == "" {
		logging.Fatalf("[archive-query] archive is disabled (ARCHIVE_DB=off)")
	}

	store, err := sqlstore.Open(cfg.ArchiveDB)
	if err != nil {
		logging.Fatalf("[archive-query] open archive: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lows, err := store.ProductLows(ctx)
	if err != nil {
		logging.Fatalf("[archive-query] product lows: %v", err)
	}
	if len(lows) == 0 {
		fmt.Printf("Archive %s is empty\n", store.Path())
		return
	}

	fmt.Printf("All-time lows in %s:\n", store.Path())
	for _, low := range lows {
		fmt.Printf("  %-30s rate %s  apr %s  (%d snapshots, last %s)\n",
			low.Product, pct(low.LowestRate), pct(low.LowestAPR), low.Snapshots, low.LastChecked)
	}

	if *recent > 0 {
		snaps, err := store.RecentSnapshots(ctx, *recent)
		if err != nil {
			logging.Fatalf("[archive-query] recent snapshots: %v", err)
		}
		for _, snap := range snaps {
			fmt.Println(report.ConsoleTable(snap.Rates, snap.CheckedAt))
		}
	}
}

func pct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.3f%%", *v)
}

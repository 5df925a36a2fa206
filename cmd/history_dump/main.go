package main

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/pmehta/ratewatch/internal/config"
	"github.com/pmehta/ratewatch/internal/history"
	"github.com/pmehta/ratewatch/internal/logging"
	"github.com/pmehta/ratewatch/internal/report"
)

func main() {
	godotenv.Load()
	logging.InitFromEnv()
	limit := flag.Int("n", 5, "number of snapshots to print, 0 for all")
	flag.Parse()

	cfg := config.FromEnv()
	store := history.NewStore(cfg.DataFile)
	hist, err := store.Load()
	if err != nil {
		logging.Fatalf("[history-dump] load history: %v", err)
	}
	if len(hist) == 0 {
		fmt.Printf("No history at %s\n", store.Path())
		return
	}

	fmt.Printf("%d snapshots in %s\n", len(hist), store.Path())
	for i, snap := range hist {
		if *limit > 0 && i >= *limit {
			break
		}
		fmt.Println(report.ConsoleTable(snap.Rates, snap.CheckedAt))
	}
}

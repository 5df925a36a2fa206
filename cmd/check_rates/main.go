package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/pmehta/ratewatch/internal/cache"
	"github.com/pmehta/ratewatch/internal/config"
	"github.com/pmehta/ratewatch/internal/history"
	"github.com/pmehta/ratewatch/internal/logging"
	"github.com/pmehta/ratewatch/internal/notify"
	"github.com/pmehta/ratewatch/internal/optimalblue"
	"github.com/pmehta/ratewatch/internal/queue"
	"github.com/pmehta/ratewatch/internal/rates"
	"github.com/pmehta/ratewatch/internal/report"
	sqlstore "github.com/pmehta/ratewatch/internal/storage/sqlite"
	"github.com/pmehta/ratewatch/internal/summarize"
)

func main() {
	godotenv.Load()
	logging.InitFromEnv()
	cfg := config.FromEnv()

	ctx := context.Background()
	now := time.Now().UTC()
	displayTS := now.Format("2006-01-02 15:04 UTC")

	fmt.Printf("Checking mortgage rates at %s\n", now.Format(time.RFC3339))

	client := optimalblue.NewClient(optimalblue.Config{
		SearchURL: cfg.SearchURL,
		ClientID:  cfg.ClientID,
		UserID:    cfg.UserID,
		FormID:    cfg.FormID,
	})
	options, err := client.FetchRates(ctx, cfg.LoanParams, cfg.TrackedProducts)
	if err != nil {
		logging.Fatalf("[check-rates] fetch rates: %v", err)
	}
	if len(options) == 0 {
		logging.Fatalf("[check-rates] no matching rate options returned")
	}
	fmt.Printf("Fetched %d rate options\n", len(options))
	fmt.Println(report.ConsoleTable(options, "Current"))

	store := history.NewStore(cfg.DataFile)
	hist, err := store.Load()
	if err != nil {
		logging.Fatalf("[check-rates] load history: %v", err)
	}
	oldRates := hist.Latest()

	if rates.Changed(oldRates, options) {
		fmt.Println("\nRates have changed! Sending notification...")
		sendAlert(ctx, cfg, oldRates, options, displayTS)
	} else {
		fmt.Println("\nRates unchanged, no notification needed")
	}

	// Persisted after the notification attempt: a failed send leaves
	// history stale so the same change fires again next run.
	snap := rates.NewSnapshot(options, now)
	if err := store.Save(hist.Prepend(snap)); err != nil {
		logging.Fatalf("[check-rates] save history: %v", err)
	}
	fmt.Printf("Saved rates to %s\n", store.Path())

	exportSnapshot(ctx, cfg, snap)
}

// sendAlert renders and delivers the email. Missing credentials skip the
// send; a transport failure aborts the run before history is persisted.
func sendAlert(ctx context.Context, cfg config.Config, oldRates, newRates []rates.RateOption, displayTS string) {
	mailer := notify.NewMailer(cfg.GmailUser, cfg.GmailAppPassword, cfg.AlertEmail)
	if !mailer.Configured() {
		fmt.Println("Email credentials not configured, skipping email notification")
		fmt.Println("Set GMAIL_USER and GMAIL_APP_PASSWORD environment variables")
		return
	}

	body, err := report.EmailBody(report.EmailInput{
		OldRates:  oldRates,
		NewRates:  newRates,
		CheckedAt: displayTS,
		Summary:   changeSummary(ctx, cfg, oldRates, newRates),
	})
	if err != nil {
		logging.Fatalf("[check-rates] render email: %v", err)
	}
	if err := mailer.Send(notify.Subject(displayTS), body); err != nil {
		logging.Fatalf("[check-rates] send email: %v", err)
	}
	fmt.Printf("Email sent to %s\n", cfg.AlertEmail)
}

// changeSummary is best-effort: any failure just means the email goes
// out without the paragraph.
func changeSummary(ctx context.Context, cfg config.Config, oldRates, newRates []rates.RateOption) string {
	if cfg.OpenAIKey == "" {
		return ""
	}
	client, err := summarize.New(summarize.Config{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel})
	if err != nil {
		logging.Errorf("[check-rates] summarize client: %v", err)
		return ""
	}
	text, err := client.ChangeSummary(ctx, oldRates, newRates)
	if err != nil {
		logging.Errorf("[check-rates] change summary: %v", err)
		return ""
	}
	return text
}

// exportSnapshot fans the new snapshot out to the supplemental channels.
// These run after the history file is saved and never fail the run.
func exportSnapshot(ctx context.Context, cfg config.Config, snap rates.Snapshot) {
	if cfg.ArchiveDB != "" {
		if archive, err := sqlstore.Open(cfg.ArchiveDB); err != nil {
			logging.Errorf("[check-rates] open archive: %v", err)
		} else {
			if err := archive.ArchiveSnapshot(ctx, snap); err != nil {
				logging.Errorf("[check-rates] archive snapshot: %v", err)
			}
			archive.Close()
		}
	}

	if cfg.RedisAddr != "" {
		bestCache, err := cache.NewRedisBestRateCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 0, "")
		if err != nil {
			logging.Errorf("[check-rates] redis cache: %v", err)
		} else {
			for product, opt := range rates.BestByProduct(snap.Rates) {
				record := cache.BestRateRecord{Option: opt, CheckedAt: snap.CheckedAt}
				if err := bestCache.Set(ctx, product, record); err != nil {
					logging.Errorf("[check-rates] cache best rate %s: %v", product, err)
					break
				}
			}
			bestCache.Close()
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := queue.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err := queue.PublishSnapshot(ctx, writer, snap); err != nil {
			logging.Errorf("[check-rates] publish snapshot: %v", err)
		}
		writer.Close()
	}
}

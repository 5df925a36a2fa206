// Package sqlite keeps a long-term archive of every fetched snapshot,
// one row per rate option. The JSON history file remains the source of
// truth for change detection; the archive only serves offline querying.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pmehta/ratewatch/internal/rates"
)

const defaultPath = "data/rates_archive.db"

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the archive database, ensuring the
// schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ArchiveSnapshot appends every option of the snapshot in one
// transaction. Re-archiving the same checked_at is a no-op.
func (s *Store) ArchiveSnapshot(ctx context.Context, snap rates.Snapshot) error {
	var seen int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_options WHERE checked_at = ?`, snap.CheckedAt).Scan(&seen)
	if err != nil {
		return fmt.Errorf("check existing snapshot: %w", err)
	}
	if seen > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range snap.Rates {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rate_options (checked_at, product, rate, apr, monthly_payment, points, price)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.CheckedAt, r.Product, r.Rate, r.APR, r.MonthlyPayment, r.Points, r.Price)
		if err != nil {
			return fmt.Errorf("insert rate option: %w", err)
		}
	}
	return tx.Commit()
}

// ProductLow summarizes a product across the archive.
type ProductLow struct {
	Product     string
	LowestRate  *float64
	LowestAPR   *float64
	Snapshots   int
	LastChecked string
}

// ProductLows returns, per product, the lowest rate and APR ever
// archived along with how many snapshots covered it.
func (s *Store) ProductLows(ctx context.Context) ([]ProductLow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product, MIN(rate), MIN(apr), COUNT(DISTINCT checked_at), MAX(checked_at)
		FROM rate_options
		GROUP BY product
		ORDER BY product`)
	if err != nil {
		return nil, fmt.Errorf("query product lows: %w", err)
	}
	defer rows.Close()

	var out []ProductLow
	for rows.Next() {
		var low ProductLow
		if err := rows.Scan(&low.Product, &low.LowestRate, &low.LowestAPR, &low.Snapshots, &low.LastChecked); err != nil {
			return nil, fmt.Errorf("scan product low: %w", err)
		}
		out = append(out, low)
	}
	return out, rows.Err()
}

// RecentSnapshots rebuilds up to limit snapshots from the archive,
// most-recent-first.
func (s *Store) RecentSnapshots(ctx context.Context, limit int) ([]rates.Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT checked_at, product, rate, apr, monthly_payment, points, price
		FROM rate_options
		WHERE checked_at IN (
			SELECT DISTINCT checked_at FROM rate_options ORDER BY checked_at DESC LIMIT ?
		)
		ORDER BY checked_at DESC, product, points`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []rates.Snapshot
	for rows.Next() {
		var checkedAt string
		var r rates.RateOption
		if err := rows.Scan(&checkedAt, &r.Product, &r.Rate, &r.APR, &r.MonthlyPayment, &r.Points, &r.Price); err != nil {
			return nil, fmt.Errorf("scan rate option: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].CheckedAt != checkedAt {
			out = append(out, rates.Snapshot{CheckedAt: checkedAt})
		}
		last := &out[len(out)-1]
		last.Rates = append(last.Rates, r)
	}
	return out, rows.Err()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rate_options (
	checked_at TEXT NOT NULL,
	product TEXT NOT NULL,
	rate REAL,
	apr REAL,
	monthly_payment REAL,
	points REAL,
	price REAL
);
CREATE INDEX IF NOT EXISTS idx_rate_options_checked_at ON rate_options (checked_at);
CREATE INDEX IF NOT EXISTS idx_rate_options_product ON rate_options (product);
`

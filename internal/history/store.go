// Package history persists the ordered snapshot sequence to a JSON file.
//
// Two on-disk shapes exist: the current shape is a top-level array of
// snapshots, most-recent-first; the legacy shape was a single object
// holding only the last fetch's rates. The legacy shape is migrated at
// the load boundary and never leaks past this package.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmehta/ratewatch/internal/rates"
)

// Store reads and rewrites the history file at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted history, an empty history when no file
// exists yet, and a one-element history when the file still carries the
// legacy single-snapshot record. A file matching neither shape is an
// error.
func (s *Store) Load() (rates.History, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return rates.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return decode(raw)
}

func decode(raw []byte) (rates.History, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return rates.History{}, nil
	}

	if trimmed[0] == '[' {
		var h rates.History
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		return h, nil
	}

	var legacy legacyRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy record: %w", err)
	}
	if len(legacy.Rates) == 0 {
		return rates.History{}, nil
	}
	return rates.History{{
		CheckedAt: legacy.LastChecked,
		Rates:     legacy.Rates,
	}}, nil
}

// legacyRecord is the pre-history file shape: one snapshot's rates under
// different field names.
type legacyRecord struct {
	Rates       []rates.RateOption `json:"rates"`
	LastChecked string             `json:"last_checked"`
}

// Save rewrites the whole file from scratch, creating missing parent
// directories. The write goes through a temp file and a rename so a
// reader never observes a half-written sequence.
func (s *Store) Save(h rates.History) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	payload, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

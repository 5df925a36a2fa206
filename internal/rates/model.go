package rates

import (
	"sort"
	"time"
)

// RateOption is one priced variant of a tracked loan product. Numeric
// fields are pointers because the quote API omits keys it has no value
// for; nil means the upstream never stated the number.
type RateOption struct {
	Product        string   `json:"product"`
	Rate           *float64 `json:"rate"`
	APR            *float64 `json:"apr"`
	MonthlyPayment *float64 `json:"monthly_payment"`
	Points         *float64 `json:"points"`
	Price          *float64 `json:"price"`
}

// Snapshot is one fetch's full rate listing plus the time it was taken.
type Snapshot struct {
	CheckedAt string       `json:"checked_at"`
	Rates     []RateOption `json:"rates"`
}

// NewSnapshot stamps a rate listing with the current UTC time.
func NewSnapshot(options []RateOption, now time.Time) Snapshot {
	return Snapshot{
		CheckedAt: now.UTC().Format(time.RFC3339),
		Rates:     options,
	}
}

// History is the ordered sequence of snapshots, most-recent-first.
// Every run prepends exactly one entry; nothing is ever pruned.
type History []Snapshot

// Prepend returns the history with s as the new most-recent entry.
func (h History) Prepend(s Snapshot) History {
	return append(History{s}, h...)
}

// Latest returns the rates of the most recent snapshot, or nil when the
// history is empty.
func (h History) Latest() []RateOption {
	if len(h) == 0 {
		return nil
	}
	return h[0].Rates
}

// Float is a convenience for building optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// SortedByProductPoints returns a copy ordered by product name, then
// points ascending (missing points sort first, as zero).
func SortedByProductPoints(options []RateOption) []RateOption {
	out := make([]RateOption, len(options))
	copy(out, options)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return pointsOrZero(out[i]) < pointsOrZero(out[j])
	})
	return out
}

func pointsOrZero(o RateOption) float64 {
	if o.Points == nil {
		return 0
	}
	return *o.Points
}

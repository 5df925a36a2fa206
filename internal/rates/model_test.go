package rates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPrependAndLatest(t *testing.T) {
	var h History
	assert.Nil(t, h.Latest())

	first := NewSnapshot([]RateOption{opt("30 Yr Fixed", 6.250, 6.400, 0)}, time.Now())
	second := NewSnapshot([]RateOption{opt("30 Yr Fixed", 6.375, 6.500, 0)}, time.Now())

	h = h.Prepend(first)
	h = h.Prepend(second)

	require.Len(t, h, 2)
	assert.Equal(t, second, h[0])
	assert.Equal(t, 6.375, *h.Latest()[0].Rate)
}

func TestNewSnapshotStampsUTC(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	snap := NewSnapshot(nil, time.Date(2026, 8, 25, 6, 30, 0, 0, loc))
	assert.Equal(t, "2026-08-25T14:30:00Z", snap.CheckedAt)
}

func TestSortedByProductPoints(t *testing.T) {
	options := []RateOption{
		opt("7 Year ARM", 5.875, 6.100, 0.5),
		opt("30 Yr Fixed", 6.125, 6.300, 1.5),
		{Product: "30 Yr Fixed", Rate: Float(6.400)}, // no points, sorts first
		opt("30 Yr Fixed", 6.250, 6.400, 0),
	}
	sorted := SortedByProductPoints(options)

	require.Len(t, sorted, 4)
	assert.Equal(t, "30 Yr Fixed", sorted[0].Product)
	assert.Nil(t, sorted[0].Points)
	assert.Equal(t, 0.0, *sorted[1].Points)
	assert.Equal(t, 1.5, *sorted[2].Points)
	assert.Equal(t, "7 Year ARM", sorted[3].Product)

	// Input order untouched.
	assert.Equal(t, "7 Year ARM", options[0].Product)
}

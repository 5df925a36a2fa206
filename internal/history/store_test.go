package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/ratewatch/internal/rates"
)

func sampleHistory() rates.History {
	return rates.History{
		{
			CheckedAt: "2026-08-25T14:00:00Z",
			Rates: []rates.RateOption{
				{
					Product:        "30 Yr Fixed",
					Rate:           rates.Float(6.375),
					APR:            rates.Float(6.500),
					MonthlyPayment: rates.Float(14030.12),
					Points:         rates.Float(0),
					Price:          rates.Float(100.125),
				},
			},
		},
		{
			CheckedAt: "2026-08-24T14:00:00Z",
			Rates: []rates.RateOption{
				{
					Product: "30 Yr Fixed",
					Rate:    rates.Float(6.250),
					APR:     rates.Float(6.400),
					Points:  rates.Float(0),
					// payment and price never stated
				},
			},
		},
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_rates.json"))
	h, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_rates.json"))
	want := sampleHistory()

	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "last_rates.json")
	store := NewStore(path)

	require.NoError(t, store.Save(sampleHistory()))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSaveRewritesWhole(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_rates.json"))

	require.NoError(t, store.Save(sampleHistory()))
	shorter := sampleHistory()[:1]
	require.NoError(t, store.Save(shorter))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, rates.History(shorter), got)
}

func TestLoadLegacyRecordMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_rates.json")
	legacy := `{
		"rates": [
			{"product": "30 Yr Fixed", "rate": 6.25, "apr": 6.4, "monthly_payment": null, "points": 0, "price": null}
		],
		"last_checked": "2026-08-20T09:00:00+00:00"
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	h, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "2026-08-20T09:00:00+00:00", h[0].CheckedAt)
	require.Len(t, h[0].Rates, 1)
	assert.Equal(t, "30 Yr Fixed", h[0].Rates[0].Product)
	assert.Equal(t, 6.25, *h[0].Rates[0].Rate)
	assert.Nil(t, h[0].Rates[0].MonthlyPayment)
}

func TestLoadLegacyRecordWithoutRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rates": [], "last_checked": null}`), 0o644))

	h, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestLegacyRoundTripsAsMigratedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_rates.json")
	legacy := `{"rates": [{"product": "7 Year ARM", "rate": 5.875, "apr": 6.1, "points": 0.5}], "last_checked": "2026-08-20T09:00:00Z"}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := NewStore(path)
	migrated, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.Save(migrated))
	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, migrated, again)

	// The file is now in the current array shape.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('['), raw[0])
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_rates.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))

	_, err := NewStore(path).Load()
	require.Error(t, err)
}

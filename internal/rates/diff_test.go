package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opt(product string, rate, apr, points float64) RateOption {
	return RateOption{
		Product: product,
		Rate:    Float(rate),
		APR:     Float(apr),
		Points:  Float(points),
	}
}

func TestBestByProduct(t *testing.T) {
	t.Run("keeps lowest points per product", func(t *testing.T) {
		options := []RateOption{
			opt("30 Yr Fixed", 6.125, 6.300, 1.5),
			opt("30 Yr Fixed", 6.250, 6.400, 0),
			opt("7 Year ARM", 5.875, 6.100, 0.5),
		}
		best := BestByProduct(options)
		require.Len(t, best, 2)
		assert.Equal(t, 6.250, *best["30 Yr Fixed"].Rate)
		assert.Equal(t, 5.875, *best["7 Year ARM"].Rate)
	})

	t.Run("missing points never beats stated points", func(t *testing.T) {
		noPoints := RateOption{Product: "30 Yr Fixed", Rate: Float(5.999)}
		options := []RateOption{
			noPoints,
			opt("30 Yr Fixed", 6.500, 6.600, 2.0),
		}
		best := BestByProduct(options)
		assert.Equal(t, 6.500, *best["30 Yr Fixed"].Rate)
	})

	t.Run("missing points kept when nothing else offered", func(t *testing.T) {
		noPoints := RateOption{Product: "30 Yr Fixed", Rate: Float(5.999)}
		best := BestByProduct([]RateOption{noPoints})
		assert.Equal(t, noPoints, best["30 Yr Fixed"])
	})

	t.Run("ties keep the first option encountered", func(t *testing.T) {
		first := opt("30 Yr Fixed", 6.250, 6.400, 1.0)
		second := opt("30 Yr Fixed", 6.375, 6.500, 1.0)
		best := BestByProduct([]RateOption{first, second})
		assert.Equal(t, first, best["30 Yr Fixed"])
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		options := []RateOption{
			opt("30 Yr Fixed", 6.125, 6.300, 1.5),
			opt("30 Yr Fixed", 6.250, 6.400, 0),
			opt("7 Year ARM", 5.875, 6.100, 0.5),
		}
		best := BestByProduct(options)
		reduced := make([]RateOption, 0, len(best))
		for _, r := range best {
			reduced = append(reduced, r)
		}
		assert.Equal(t, best, BestByProduct(reduced))
	})
}

func TestChanged(t *testing.T) {
	base := []RateOption{
		opt("30 Yr Fixed", 6.250, 6.400, 0),
		opt("30 Yr Fixed", 6.125, 6.300, 1.5),
		opt("7 Year ARM", 5.875, 6.100, 0.5),
	}

	t.Run("empty old always changed", func(t *testing.T) {
		assert.True(t, Changed(nil, base))
		assert.True(t, Changed([]RateOption{}, base))
	})

	t.Run("identical listings unchanged", func(t *testing.T) {
		assert.False(t, Changed(base, base))
	})

	t.Run("unrelated fields do not count", func(t *testing.T) {
		// Same best (rate, apr) per product; price, payment, and the
		// losing tier differ.
		newRates := []RateOption{
			{Product: "30 Yr Fixed", Rate: Float(6.250), APR: Float(6.400), Points: Float(0), Price: Float(99.5), MonthlyPayment: Float(14000)},
			opt("30 Yr Fixed", 6.000, 6.200, 2.5),
			opt("7 Year ARM", 5.875, 6.100, 0.5),
		}
		assert.False(t, Changed(base, newRates))
	})

	t.Run("best rate movement detected", func(t *testing.T) {
		newRates := []RateOption{
			opt("30 Yr Fixed", 6.375, 6.500, 0),
			opt("7 Year ARM", 5.875, 6.100, 0.5),
		}
		assert.True(t, Changed(base, newRates))
	})

	t.Run("product appearing counts as change", func(t *testing.T) {
		newRates := append([]RateOption{opt("15 Yr Fixed", 5.500, 5.650, 0)}, base...)
		assert.True(t, Changed(base, newRates))
	})

	t.Run("product disappearing counts as change", func(t *testing.T) {
		newRates := []RateOption{opt("30 Yr Fixed", 6.250, 6.400, 0)}
		assert.True(t, Changed(base, newRates))
	})

	// The detector compares exactly; the renderer's 0.0005 display
	// threshold does not apply here. Documented behavior, not a bug.
	t.Run("sub-display-threshold movement still counts", func(t *testing.T) {
		oldRates := []RateOption{opt("30 Yr Fixed", 6.250, 6.400, 0)}
		newRates := []RateOption{opt("30 Yr Fixed", 6.2503, 6.400, 0)}
		assert.True(t, Changed(oldRates, newRates))
	})

	t.Run("rate going missing counts as change", func(t *testing.T) {
		oldRates := []RateOption{opt("30 Yr Fixed", 6.250, 6.400, 0)}
		newRates := []RateOption{{Product: "30 Yr Fixed", APR: Float(6.400), Points: Float(0)}}
		assert.True(t, Changed(oldRates, newRates))
	})
}

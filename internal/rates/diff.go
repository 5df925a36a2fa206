package rates

import "math"

// BestByProduct keeps the lowest-points option per product. Options that
// do not state their points are never preferred over ones that do; ties
// keep the first option encountered.
func BestByProduct(options []RateOption) map[string]RateOption {
	best := make(map[string]RateOption, len(options))
	for _, opt := range options {
		cur, ok := best[opt.Product]
		if !ok || pointsOrInf(opt) < pointsOrInf(cur) {
			best[opt.Product] = opt
		}
	}
	return best
}

// Changed reports whether the best rate or APR moved for any tracked
// product between two rate listings. An empty old listing always counts
// as changed (first run / initial alert). Comparison is exact on the
// stored values; display rounding is the renderer's concern, not ours.
func Changed(oldRates, newRates []RateOption) bool {
	if len(oldRates) == 0 {
		return true
	}

	oldBest := BestByProduct(oldRates)
	newBest := BestByProduct(newRates)

	if len(oldBest) != len(newBest) {
		return true
	}
	for product := range newBest {
		if _, ok := oldBest[product]; !ok {
			return true
		}
	}

	for product, nb := range newBest {
		ob := oldBest[product]
		if !floatEq(ob.Rate, nb.Rate) || !floatEq(ob.APR, nb.APR) {
			return true
		}
	}
	return false
}

func pointsOrInf(o RateOption) float64 {
	if o.Points == nil {
		return math.Inf(1)
	}
	return *o.Points
}

func floatEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

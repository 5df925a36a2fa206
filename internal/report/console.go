// Package report renders the fetched rates for humans: a fixed-width
// console table and an HTML email body with per-product change markers.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pmehta/ratewatch/internal/rates"
)

// ConsoleTable renders options as a plain-text table sorted by product
// then points. Missing values show as N/A.
func ConsoleTable(options []rates.RateOption, label string) string {
	var b strings.Builder
	rule := strings.Repeat("-", 75)

	fmt.Fprintf(&b, "\n%s Rates:\n", label)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-30s %7s %7s %12s %7s\n", "Product", "Rate", "APR", "Payment", "Points")
	b.WriteString(rule + "\n")
	for _, r := range rates.SortedByProductPoints(options) {
		fmt.Fprintf(&b, "%-30s %7s %7s %12s %7s\n",
			r.Product, formatPercent(r.Rate), formatPercent(r.APR),
			formatCurrency(r.MonthlyPayment), formatPoints(r.Points))
	}
	b.WriteString(rule)
	return b.String()
}

func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.3f%%", *v)
}

func formatCurrency(v *float64) string {
	if v == nil {
		return "N/A"
	}
	fixed := fmt.Sprintf("%.2f", *v)
	parts := strings.SplitN(fixed, ".", 2)
	whole, _ := strconv.ParseInt(parts[0], 10, 64)
	return "$" + humanize.Comma(whole) + "." + parts[1]
}

func formatPoints(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

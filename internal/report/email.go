package report

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"strings"

	"github.com/pmehta/ratewatch/internal/rates"
)

// Display thresholds. Sub-threshold movements render as "no change";
// the change detector itself compares exactly and ignores these.
const (
	rateEpsilon    = 0.0005
	paymentEpsilon = 0.01
)

// EmailInput carries everything the email body needs. Summary is an
// optional pre-generated paragraph placed above the tables.
type EmailInput struct {
	OldRates  []rates.RateOption
	NewRates  []rates.RateOption
	CheckedAt string
	Summary   string
}

type emailData struct {
	Alert     string
	CheckedAt string
	Summary   string
	HasPrior  bool
	Changes   []changeRow
	Current   []optionRow
	Previous  []optionRow
}

type changeRow struct {
	Product    string
	New        bool
	OldRate    string
	NewRate    string
	RateChange string
	OldAPR     string
	NewAPR     string
	APRChange  string
}

type optionRow struct {
	Product      string
	Rate         string
	APR          string
	Payment      string
	Points       string
	RateDelta    string
	APRDelta     string
	PaymentDelta string
}

// EmailBody renders the HTML alert. With no prior rates it is an
// "Initial" alert listing only the current options; otherwise it leads
// with a best-rate-per-product comparison and annotates each current row
// with deltas against the prior option at the same (product, points).
func EmailBody(in EmailInput) (string, error) {
	data := emailData{
		Alert:     "Initial",
		CheckedAt: in.CheckedAt,
		Summary:   in.Summary,
		Current:   buildRows(in.NewRates, in.OldRates),
	}
	if len(in.OldRates) > 0 {
		data.Alert = "Change"
		data.HasPrior = true
		data.Changes = buildChanges(in.OldRates, in.NewRates)
		data.Previous = buildRows(in.OldRates, nil)
	}

	var b strings.Builder
	if err := emailTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return b.String(), nil
}

// buildChanges compares best-by-product reductions, sorted by product
// name. Products without a prior best are flagged NEW.
func buildChanges(oldRates, newRates []rates.RateOption) []changeRow {
	oldBest := rates.BestByProduct(oldRates)
	newBest := rates.BestByProduct(newRates)

	products := make([]string, 0, len(newBest))
	for p := range newBest {
		products = append(products, p)
	}
	sort.Strings(products)

	rows := make([]changeRow, 0, len(products))
	for _, p := range products {
		nb := newBest[p]
		ob, ok := oldBest[p]
		if !ok {
			rows = append(rows, changeRow{
				Product: p,
				New:     true,
				NewRate: formatPercent(nb.Rate),
				NewAPR:  formatPercent(nb.APR),
			})
			continue
		}
		rows = append(rows, changeRow{
			Product:    p,
			OldRate:    formatPercent(ob.Rate),
			NewRate:    formatPercent(nb.Rate),
			RateChange: changeMarker(ob.Rate, nb.Rate, rateEpsilon, 3),
			OldAPR:     formatPercent(ob.APR),
			NewAPR:     formatPercent(nb.APR),
			APRChange:  changeMarker(ob.APR, nb.APR, rateEpsilon, 3),
		})
	}
	return rows
}

// buildRows renders every option sorted by (product, points). When prior
// options are given, rows matching a prior (product, points) exactly get
// inline delta markers; rows with no prior match show none.
func buildRows(options, prior []rates.RateOption) []optionRow {
	prev := indexByProductPoints(prior)

	sorted := rates.SortedByProductPoints(options)
	rows := make([]optionRow, 0, len(sorted))
	for _, r := range sorted {
		row := optionRow{
			Product: r.Product,
			Rate:    formatPercent(r.Rate),
			APR:     formatPercent(r.APR),
			Payment: formatCurrency(r.MonthlyPayment),
			Points:  formatPoints(r.Points),
		}
		if old, ok := prev[keyOf(r)]; ok {
			row.RateDelta = deltaMarker(old.Rate, r.Rate, rateEpsilon, 3)
			row.APRDelta = deltaMarker(old.APR, r.APR, rateEpsilon, 3)
			row.PaymentDelta = deltaMarker(old.MonthlyPayment, r.MonthlyPayment, paymentEpsilon, 2)
		}
		rows = append(rows, row)
	}
	return rows
}

// optionKey matches pricing tiers like-for-like: the same product at the
// same points, with stated and unstated points kept distinct.
type optionKey struct {
	product   string
	points    float64
	hasPoints bool
}

func keyOf(r rates.RateOption) optionKey {
	k := optionKey{product: r.Product}
	if r.Points != nil {
		k.points = *r.Points
		k.hasPoints = true
	}
	return k
}

func indexByProductPoints(options []rates.RateOption) map[optionKey]rates.RateOption {
	idx := make(map[optionKey]rates.RateOption, len(options))
	for _, r := range options {
		k := keyOf(r)
		if _, ok := idx[k]; !ok {
			idx[k] = r
		}
	}
	return idx
}

// changeMarker always yields a marker: an arrow with the signed delta,
// or a dash when the movement is under the threshold or not computable.
func changeMarker(oldV, newV *float64, eps float64, prec int) string {
	m := deltaMarker(oldV, newV, eps, prec)
	if m == "" {
		return "–"
	}
	return m
}

// deltaMarker yields "" when either side is missing or the movement is
// under the threshold.
func deltaMarker(oldV, newV *float64, eps float64, prec int) string {
	if oldV == nil || newV == nil {
		return ""
	}
	d := *newV - *oldV
	if math.Abs(d) < eps {
		return ""
	}
	arrow := "▲"
	if d < 0 {
		arrow = "▼"
	}
	return fmt.Sprintf("%s %+.*f", arrow, prec, d)
}

var emailTmpl = template.Must(template.New("email").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Mortgage Rate {{.Alert}} Alert</h2>
<p>Checked at: {{.CheckedAt}}</p>
{{if .Summary}}<p style="font-style: italic;">{{.Summary}}</p>{{end}}
{{if .HasPrior}}<h3>Best rate per product</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Product</th><th>Rate</th><th></th><th>APR</th><th></th></tr>
{{range .Changes}}{{if .New}}<tr><td>{{.Product}}</td><td>{{.NewRate}}</td><td>NEW</td><td>{{.NewAPR}}</td><td>NEW</td></tr>
{{else}}<tr><td>{{.Product}}</td><td>{{.OldRate}} &rarr; {{.NewRate}}</td><td>{{.RateChange}}</td><td>{{.OldAPR}} &rarr; {{.NewAPR}}</td><td>{{.APRChange}}</td></tr>
{{end}}{{end}}</table>
{{end}}<h3>Current rates</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Product</th><th>Rate</th><th>APR</th><th>Payment</th><th>Points</th></tr>
{{range .Current}}<tr><td>{{.Product}}</td><td>{{.Rate}}{{if .RateDelta}} {{.RateDelta}}{{end}}</td><td>{{.APR}}{{if .APRDelta}} {{.APRDelta}}{{end}}</td><td>{{.Payment}}{{if .PaymentDelta}} {{.PaymentDelta}}{{end}}</td><td>{{.Points}}</td></tr>
{{end}}</table>
{{if .HasPrior}}<h3>Previous rates</h3>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Product</th><th>Rate</th><th>APR</th><th>Payment</th><th>Points</th></tr>
{{range .Previous}}<tr><td>{{.Product}}</td><td>{{.Rate}}</td><td>{{.APR}}</td><td>{{.Payment}}</td><td>{{.Points}}</td></tr>
{{end}}</table>
{{end}}</body>
</html>
`))

// Package analytics filters and aggregates ledger rows. It is the query
// engine substitute for the spreadsheet-backed store: a single linear scan
// over stringly-typed rows, with a documented best-effort parsing policy.
package analytics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/maazahmad/spendtrace/internal/domain"
)

// Filter narrows the scan. Text filters are case-insensitive substring
// matches and count as inactive when empty or the literal token "null".
// Date bounds accept literal YYYY-MM-DD dates or the TODAY / 7_DAYS_AGO
// tokens; an absent or unparseable bound leaves that side open.
type Filter struct {
	Category  string
	Merchant  string
	Item      string
	StartDate string
	EndDate   string
}

// Summary is the aggregate over matching rows.
//
// Currency is that of the last matching row scanned, not a computed common
// currency: a multi-currency ledger reports a single, possibly misleading
// code. Totals are never unit-converted.
//
// Skipped counts rows dropped by the best-effort parser (bad date,
// non-numeric amount, too few columns). The document has no schema
// enforcement, so a malformed row is a diagnostic, not an error.
type Summary struct {
	Total    float64
	Currency string
	Matches  int
	Skipped  int
}

var (
	// ErrEmptyLedger reports a ledger with no data rows at all. Distinct from
	// ErrNoMatches so callers can word the two outcomes differently.
	ErrEmptyLedger = errors.New("analytics: ledger has no data rows")

	// ErrNoMatches reports that rows exist but none passed the filters.
	ErrNoMatches = errors.New("analytics: no rows match the filters")
)

// Summarize scans the given ledger rows (header included, at position 0) and
// totals the rows passing the filter. now anchors the symbolic date tokens.
func Summarize(rows [][]string, f Filter, now time.Time) (Summary, error) {
	if len(rows) < 2 {
		return Summary{}, ErrEmptyLedger
	}

	start, hasStart := resolveBound(f.StartDate, now)
	end, hasEnd := resolveBound(f.EndDate, now)

	sum := Summary{Currency: domain.DefaultCurrency}

	for _, row := range rows[1:] {
		parsed, ok := parseRow(row)
		if !ok {
			sum.Skipped++
			continue
		}

		if hasStart && parsed.date.Before(start) {
			continue
		}
		if hasEnd && parsed.date.After(end) {
			continue
		}
		if !matches(f.Category, parsed.category) {
			continue
		}
		if !matches(f.Merchant, parsed.merchant) {
			continue
		}
		if !matches(f.Item, parsed.item) {
			continue
		}

		sum.Total += parsed.amount
		sum.Currency = parsed.currency
		sum.Matches++
	}

	if sum.Matches == 0 {
		return sum, ErrNoMatches
	}
	return sum, nil
}

type parsedRow struct {
	date     civil.Date
	item     string
	amount   float64
	currency string
	merchant string
	category string
}

// parseRow coerces one sheet row. A row needs at least date, item, amount and
// currency; merchant and category default to empty when the row is short.
func parseRow(row []string) (parsedRow, bool) {
	if len(row) < 4 {
		return parsedRow{}, false
	}

	date, err := civil.ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return parsedRow{}, false
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return parsedRow{}, false
	}

	p := parsedRow{
		date:     date,
		item:     row[1],
		amount:   amount,
		currency: row[3],
	}
	if len(row) > 4 {
		p.merchant = row[4]
	}
	if len(row) > 5 {
		p.category = row[5]
	}
	return p, true
}

// matches reports whether the cell satisfies the filter. An inactive filter
// matches everything.
func matches(filter, cell string) bool {
	if !FilterActive(filter) {
		return true
	}
	return strings.Contains(strings.ToLower(cell), strings.ToLower(filter))
}

// FilterActive reports whether a text filter should be applied. The analysis
// model emits the literal string "null" for absent fields.
func FilterActive(filter string) bool {
	return filter != "" && !strings.EqualFold(filter, "null")
}

// resolveBound turns a date filter string into a concrete bound. The second
// return is false for an open bound.
func resolveBound(raw string, now time.Time) (civil.Date, bool) {
	raw = strings.TrimSpace(raw)
	if !FilterActive(raw) {
		return civil.Date{}, false
	}

	switch raw {
	case domain.DateToday:
		return civil.DateOf(now), true
	case domain.DateSevenDaysAgo:
		return civil.DateOf(now.AddDate(0, 0, -7)), true
	}

	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}

package domain

import (
	"cloud.google.com/go/civil"
)

// ExpenseRow is one normalized ledger entry. This is a domain struct, not a
// sheet row; the ledger store maps it into the six ledger columns.
// Row position in the sheet is the implicit primary key: rows are appended in
// receipt order and edit/undo address them by index.
type ExpenseRow struct {
	Date     civil.Date // parsed from "date" (YYYY-MM-DD)
	Item     string
	Amount   float64
	Currency string // ISO-ish code, e.g. "PKR"
	Merchant string
	Category string
}

// LedgerHeader is the label row that always occupies sheet row 1.
// Data rows start at row 2.
var LedgerHeader = []string{"Date", "Item", "Amount", "Currency", "Merchant", "Category"}

// Defaults applied when the analysis step omits a field. Logging never fails
// on a missing field; it records a placeholder instead.
const (
	DefaultItem     = "Unknown"
	DefaultCurrency = "PKR"
	DefaultMerchant = "Unknown"
	DefaultCategory = "Uncategorized"
)

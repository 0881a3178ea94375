package ledger

import (
	"context"

	"github.com/maazahmad/spendtrace/internal/domain"
)

// Column letters of the ledger tab. Amount and Currency are the only columns
// an edit ever touches.
const (
	ColDate     = "A"
	ColItem     = "B"
	ColAmount   = "C"
	ColCurrency = "D"
	ColMerchant = "E"
	ColCategory = "F"
)

// Store is the row-level contract against a per-user ledger document.
// Row indices are 1-based sheet positions: the header occupies row 1 and data
// rows start at row 2. Every read re-fetches the full row range; there is no
// caching, so each logical operation costs one full-range read.
//
// The backing document service has no transactional isolation. Concurrent
// writers to the same ledger can race (an append and an undo may interleave);
// callers accept this.
type Store interface {
	// Append adds one data row after the last non-empty row.
	Append(ctx context.Context, sheetID string, row domain.ExpenseRow) error

	// ReadAll returns every row in the ledger tab, header included, in sheet
	// order. Cells are stringified; short rows are returned as-is.
	ReadAll(ctx context.Context, sheetID string) ([][]string, error)

	// UpdateRange overwrites the cells of one row between startCol and endCol
	// in a single atomic request.
	UpdateRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string, values []interface{}) error

	// ClearRange blanks the cells of one row between startCol and endCol.
	// The row keeps its position; nothing shifts up.
	ClearRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string) error
}

// StoreError wraps any I/O or formatting failure from the backing document
// service. The adapter never partially applies a multi-cell update: each call
// is a single request, so a StoreError means the whole call did not happen.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "ledger: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

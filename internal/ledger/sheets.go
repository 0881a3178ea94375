package ledger

import (
	"context"
	"fmt"

	"github.com/maazahmad/spendtrace/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	ledgerTab = "Sheet1"

	// ledgerRange covers the six ledger columns of the main tab.
	ledgerRange = ledgerTab + "!A:F"

	// appendAnchor is where values.append starts searching for the table.
	appendAnchor = ledgerTab + "!A1"
)

// SheetsStore implements Store against the Google Sheets API.
type SheetsStore struct {
	svc *sheets.Service
}

// NewSheetsStore creates a Sheets-backed ledger store. Pass
// option.WithCredentialsFile when not running with Application Default
// Credentials.
func NewSheetsStore(ctx context.Context, opts ...option.ClientOption) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ledger: create sheets service: %w", err)
	}
	return &SheetsStore{svc: svc}, nil
}

// Append implements Store.
func (s *SheetsStore) Append(ctx context.Context, sheetID string, row domain.ExpenseRow) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{{
			row.Date.String(),
			row.Item,
			row.Amount,
			row.Currency,
			row.Merchant,
			row.Category,
		}},
	}

	_, err := s.svc.Spreadsheets.Values.
		Append(sheetID, appendAnchor, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Op: "append", Err: err}
	}
	return nil
}

// ReadAll implements Store.
func (s *SheetsStore) ReadAll(ctx context.Context, sheetID string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(sheetID, ledgerRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, cellString(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateRange implements Store.
func (s *SheetsStore) UpdateRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string, values []interface{}) error {
	body := &sheets.ValueRange{Values: [][]interface{}{values}}

	_, err := s.svc.Spreadsheets.Values.
		Update(sheetID, rowRange(rowIndex, startCol, endCol), body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

// ClearRange implements Store.
func (s *SheetsStore) ClearRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string) error {
	_, err := s.svc.Spreadsheets.Values.
		Clear(sheetID, rowRange(rowIndex, startCol, endCol), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Op: "clear", Err: err}
	}
	return nil
}

// rowRange builds an A1 range spanning one row, e.g. "Sheet1!C3:D3".
func rowRange(rowIndex int, startCol, endCol string) string {
	return fmt.Sprintf("%s!%s%d:%s%d", ledgerTab, startCol, rowIndex, endCol, rowIndex)
}

// cellString normalizes a sheet cell to its string form. Numeric cells come
// back as float64 from the API.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		// Trim the trailing ".0000" fmt would add for whole numbers.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

var _ Store = (*SheetsStore)(nil)

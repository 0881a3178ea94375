package ledger

import (
	"context"
	"fmt"

	"github.com/maazahmad/spendtrace/internal/domain"
	"google.golang.org/api/sheets/v4"
)

const analyticsTab = "Analytics"

// analyticsFormula is the derived category aggregate injected once at
// provisioning time. The core never recomputes this view; the spreadsheet
// keeps it live on its own.
const analyticsFormula = `=QUERY(Sheet1!A:F, "select F, sum(C) where F is not null group by F label sum(C) ''", 1)`

// Seed prepares a freshly cloned ledger: writes the header labels into row 1
// of the main tab and creates the Analytics tab with its aggregate formula.
// Called exactly once per document, right after provisioning.
func (s *SheetsStore) Seed(ctx context.Context, sheetID string) error {
	header := make([]interface{}, 0, len(domain.LedgerHeader))
	for _, label := range domain.LedgerHeader {
		header = append(header, label)
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(sheetID, appendAnchor, &sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Op: "seed header", Err: err}
	}

	return s.seedAnalyticsTab(ctx, sheetID)
}

func (s *SheetsStore) seedAnalyticsTab(ctx context.Context, sheetID string) error {
	addTab := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: analyticsTab},
			},
		}},
	}
	// The template may already carry the tab; a duplicate-title error here is
	// not a failure.
	_, _ = s.svc.Spreadsheets.BatchUpdate(sheetID, addTab).Context(ctx).Do()

	body := &sheets.ValueRange{
		Values: [][]interface{}{
			{"Category Summary", "Total Spend"},
			{analyticsFormula},
		},
	}
	_, err := s.svc.Spreadsheets.Values.
		Update(sheetID, fmt.Sprintf("%s!A1", analyticsTab), body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return &StoreError{Op: "seed analytics", Err: err}
	}
	return nil
}

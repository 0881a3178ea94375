package router

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maazahmad/spendtrace/internal/domain"
	"github.com/maazahmad/spendtrace/internal/ledger"
	"github.com/maazahmad/spendtrace/internal/logger"
)

// fakeStore keeps ledger rows in memory and records mutations, standing in
// for the Sheets backend.
type fakeStore struct {
	rows    [][]string
	appends []domain.ExpenseRow
	updates []updateCall
	clears  []clearCall
	err     error
}

type updateCall struct {
	rowIndex         int
	startCol, endCol string
	values           []interface{}
}

type clearCall struct {
	rowIndex         int
	startCol, endCol string
}

func (f *fakeStore) Append(ctx context.Context, sheetID string, row domain.ExpenseRow) error {
	if f.err != nil {
		return f.err
	}
	f.appends = append(f.appends, row)
	f.rows = append(f.rows, []string{
		row.Date.String(), row.Item, fmt.Sprint(row.Amount), row.Currency, row.Merchant, row.Category,
	})
	return nil
}

func (f *fakeStore) ReadAll(ctx context.Context, sheetID string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeStore) UpdateRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string, values []interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, updateCall{rowIndex, startCol, endCol, values})
	return nil
}

func (f *fakeStore) ClearRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string) error {
	if f.err != nil {
		return f.err
	}
	f.clears = append(f.clears, clearCall{rowIndex, startCol, endCol})
	return nil
}

var _ ledger.Store = (*fakeStore)(nil)

func newTestRouter(store *fakeStore) *Router {
	r := New(store, logger.NewWithWriter(testWriter{}))
	r.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	return r
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func header() []string {
	return []string{"Date", "Item", "Amount", "Currency", "Merchant", "Category"}
}

func TestRoute_LogExpenseDefaults(t *testing.T) {
	store := &fakeStore{rows: [][]string{header()}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{
		Kind: domain.IntentLogExpense,
		Log:  &domain.LogData{},
	}, "sheet-1")
	require.NoError(t, err)

	require.Len(t, store.appends, 1)
	row := store.appends[0]
	assert.Equal(t, "Unknown", row.Item)
	assert.Equal(t, 0.0, row.Amount)
	assert.Equal(t, "PKR", row.Currency)
	assert.Equal(t, "Unknown", row.Merchant)
	assert.Equal(t, "Uncategorized", row.Category)
	assert.Equal(t, "2024-01-10", row.Date.String())

	assert.Contains(t, reply, "Expense Saved")
	assert.Contains(t, reply, "Unknown")
	assert.Contains(t, reply, "PKR")
}

func TestRoute_LogExpenseEchoesFields(t *testing.T) {
	store := &fakeStore{rows: [][]string{header()}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{
		Kind: domain.IntentLogExpense,
		Log: &domain.LogData{
			Date: "2024-01-05", Item: "coffee", Amount: 5, Currency: "PKR",
			Merchant: "StarMart", Category: "food",
		},
	}, "sheet-1")
	require.NoError(t, err)

	assert.Contains(t, reply, "coffee")
	assert.Contains(t, reply, "5.00 PKR")
	assert.Equal(t, "2024-01-05", store.appends[0].Date.String())
}

func TestRoute_QuerySpending(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		header(),
		{"2024-01-01", "coffee", "5", "PKR", "StarMart", "food"},
		{"2024-01-05", "bus", "2", "PKR", "", "transport"},
	}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{
		Kind:  domain.IntentQuerySpending,
		Query: &domain.QueryFilter{Category: "food"},
	}, "sheet-1")
	require.NoError(t, err)

	assert.Contains(t, reply, "5.00 PKR")
	assert.Contains(t, reply, "Transactions: 1")
}

func TestRoute_QueryEmptyLedgerVsNoMatch(t *testing.T) {
	r := newTestRouter(&fakeStore{rows: [][]string{header()}})
	reply, err := r.Route(context.Background(), domain.Intent{Kind: domain.IntentQuerySpending}, "s")
	require.NoError(t, err)
	assert.Equal(t, replyEmptyLedger, reply)

	r = newTestRouter(&fakeStore{rows: [][]string{
		header(),
		{"2024-01-01", "coffee", "5", "PKR", "", "food"},
	}})
	reply, err = r.Route(context.Background(), domain.Intent{
		Kind:  domain.IntentQuerySpending,
		Query: &domain.QueryFilter{Category: "rent"},
	}, "s")
	require.NoError(t, err)
	assert.Equal(t, replyNoMatches, reply)
}

func TestRoute_EditLastMatchPicksLatestRow(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		header(),
		{"2024-01-01", "coffee beans", "5", "PKR", "", "food"},
		{"2024-01-05", "bus", "2", "PKR", "", "transport"},
		{"2024-01-07", "iced coffee", "6", "PKR", "", "food"},
	}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{
		Kind: domain.IntentEditExpense,
		Edit: &domain.EditRequest{
			TargetItem: "coffee", TargetDate: "LAST_MATCH",
			NewAmount: 9, NewCurrency: "PKR",
		},
	}, "s")
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	// Row 4 is the later-indexed coffee row; the 2024-01-01 match is skipped.
	assert.Equal(t, 4, store.updates[0].rowIndex)
	assert.Equal(t, ledger.ColAmount, store.updates[0].startCol)
	assert.Equal(t, ledger.ColCurrency, store.updates[0].endCol)
	assert.Equal(t, []interface{}{9.0, "PKR"}, store.updates[0].values)
	assert.Contains(t, reply, "Updated")
}

func TestRoute_EditByExactDate(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		header(),
		{"2024-01-01", "coffee", "5", "PKR", "", "food"},
		{"2024-01-07", "coffee", "6", "PKR", "", "food"},
	}}
	r := newTestRouter(store)

	_, err := r.Route(context.Background(), domain.Intent{
		Kind: domain.IntentEditExpense,
		Edit: &domain.EditRequest{
			TargetItem: "coffee", TargetDate: "2024-01-01",
			NewAmount: 7, NewCurrency: "PKR",
		},
	}, "s")
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	assert.Equal(t, 2, store.updates[0].rowIndex)
}

func TestRoute_EditNotFoundAfterFullScan(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		header(),
		{"2024-01-01", "coffee", "5", "PKR", "", "food"},
	}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{
		Kind: domain.IntentEditExpense,
		Edit: &domain.EditRequest{
			TargetItem: "helicopter", TargetDate: "LAST_MATCH",
			NewAmount: 1, NewCurrency: "PKR",
		},
	}, "s")
	require.NoError(t, err)

	assert.Equal(t, replyEditNotFound, reply)
	assert.Empty(t, store.updates)
}

func TestRoute_UndoClearsOnlyLastRow(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		header(),
		{"2024-01-01", "coffee", "5", "PKR", "", "food"},
		{"2024-01-05", "bus", "2", "PKR", "", "transport"},
	}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{Kind: domain.IntentUndoLast}, "s")
	require.NoError(t, err)

	require.Len(t, store.clears, 1)
	assert.Equal(t, 3, store.clears[0].rowIndex)
	assert.Equal(t, ledger.ColDate, store.clears[0].startCol)
	assert.Equal(t, ledger.ColCategory, store.clears[0].endCol)
	assert.Equal(t, replyUndoDone, reply)
}

func TestRoute_UndoHeaderOnlyLedger(t *testing.T) {
	store := &fakeStore{rows: [][]string{header()}}
	r := newTestRouter(store)

	reply, err := r.Route(context.Background(), domain.Intent{Kind: domain.IntentUndoLast}, "s")
	require.NoError(t, err)

	assert.Equal(t, replyNothingToUndo, reply)
	assert.Empty(t, store.clears, "header must never be cleared")
}

func TestRoute_UnrecognizedGetsHelp(t *testing.T) {
	r := newTestRouter(&fakeStore{})

	reply, err := r.Route(context.Background(), domain.Intent{Kind: domain.IntentUnrecognized}, "s")
	require.NoError(t, err)
	assert.Equal(t, replyHelp, reply)
}

func TestRoute_StoreFailureSurfacesAsError(t *testing.T) {
	store := &fakeStore{err: &ledger.StoreError{Op: "read", Err: assert.AnError}}
	r := newTestRouter(store)

	_, err := r.Route(context.Background(), domain.Intent{Kind: domain.IntentUndoLast}, "s")
	require.Error(t, err)

	var storeErr *ledger.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

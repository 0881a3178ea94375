package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maazahmad/spendtrace/internal/domain"
	"github.com/maazahmad/spendtrace/internal/ledger"
	"github.com/maazahmad/spendtrace/internal/users"
)

type fakeLedger struct {
	bySheet  map[string][][]string
	err      error
	errSheet string
}

func (f *fakeLedger) Append(ctx context.Context, sheetID string, row domain.ExpenseRow) error {
	return nil
}

func (f *fakeLedger) ReadAll(ctx context.Context, sheetID string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.errSheet != "" && sheetID == f.errSheet {
		return nil, errors.New("read failed")
	}
	return f.bySheet[sheetID], nil
}

func (f *fakeLedger) UpdateRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string, values []interface{}) error {
	return nil
}

func (f *fakeLedger) ClearRange(ctx context.Context, sheetID string, rowIndex int, startCol, endCol string) error {
	return nil
}

var _ ledger.Store = (*fakeLedger)(nil)

type fakeNotifier struct {
	sent map[string]string
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(map[string]string)}
}

func (f *fakeNotifier) SendText(ctx context.Context, to, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent[to] = text
	return nil
}

// Wednesday 2024-01-10, so the seven-day window is 2024-01-03 .. 2024-01-10.
var fixtureNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func newWeekly(t *testing.T, store *fakeLedger, notifier *fakeNotifier, us ...domain.User) *Weekly {
	t.Helper()
	userStore := users.NewMemory()
	for _, u := range us {
		require.NoError(t, userStore.Save(context.Background(), u))
	}
	w := NewWeekly(userStore, store, notifier, zerolog.Nop())
	w.now = func() time.Time { return fixtureNow }
	return w
}

func TestRun_SendsWeeklyTotals(t *testing.T) {
	store := &fakeLedger{bySheet: map[string][][]string{
		"sheet-1": {
			{"Date", "Item", "Amount", "Currency", "Merchant", "Category"},
			{"2023-12-01", "old purchase", "99", "PKR", "shop", "misc"},
			{"2024-01-08", "groceries", "40", "PKR", "store", "food"},
			{"2024-01-09", "fuel", "60", "PKR", "station", "transport"},
		},
	}}
	notifier := newFakeNotifier()
	w := newWeekly(t, store, notifier, domain.User{PhoneNumber: "1", SpreadsheetID: "sheet-1"})

	require.NoError(t, w.Run(context.Background()))

	require.Contains(t, notifier.sent, "1")
	assert.Contains(t, notifier.sent["1"], "Weekly CFO Wrap-up")
	assert.Contains(t, notifier.sent["1"], "100.00 PKR")
	assert.Contains(t, notifier.sent["1"], "Transactions: 2")
}

func TestRun_EmptyLedgerGetsQuietWeekMessage(t *testing.T) {
	store := &fakeLedger{bySheet: map[string][][]string{
		"sheet-1": {{"Date", "Item", "Amount", "Currency", "Merchant", "Category"}},
	}}
	notifier := newFakeNotifier()
	w := newWeekly(t, store, notifier, domain.User{PhoneNumber: "1", SpreadsheetID: "sheet-1"})

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, notifier.sent["1"], "No spending recorded this week")
}

func TestRun_OneFailureDoesNotStopFanOut(t *testing.T) {
	store := &fakeLedger{bySheet: map[string][][]string{
		"good": {
			{"Date", "Item", "Amount", "Currency", "Merchant", "Category"},
			{"2024-01-09", "tea", "5", "PKR", "cafe", "food"},
		},
	}}
	store.errSheet = "broken"
	notifier := newFakeNotifier()
	w := newWeekly(t, store, notifier,
		domain.User{PhoneNumber: "1", SpreadsheetID: "broken"},
		domain.User{PhoneNumber: "2", SpreadsheetID: "good"},
	)

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.NotContains(t, notifier.sent, "1")
	assert.Contains(t, notifier.sent, "2")
}

func TestRun_ReadErrorReported(t *testing.T) {
	store := &fakeLedger{err: errors.New("sheets down")}
	notifier := newFakeNotifier()
	w := newWeekly(t, store, notifier, domain.User{PhoneNumber: "1", SpreadsheetID: "sheet-1"})

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, notifier.sent)
}

func TestNextSundayEvening(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "midweek",
			now:  time.Date(2024, 1, 10, 12, 0, 0, 0, loc), // Wednesday
			want: time.Date(2024, 1, 14, 21, 0, 0, 0, loc),
		},
		{
			name: "sunday before nine",
			now:  time.Date(2024, 1, 14, 20, 0, 0, 0, loc),
			want: time.Date(2024, 1, 14, 21, 0, 0, 0, loc),
		},
		{
			name: "sunday after nine rolls a week",
			now:  time.Date(2024, 1, 14, 21, 30, 0, 0, loc),
			want: time.Date(2024, 1, 21, 21, 0, 0, 0, loc),
		},
		{
			name: "exactly nine rolls a week",
			now:  time.Date(2024, 1, 14, 21, 0, 0, 0, loc),
			want: time.Date(2024, 1, 21, 21, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextSundayEvening(tc.now))
		})
	}
}

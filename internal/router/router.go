// Package router maps a classified intent onto one ledger operation and
// produces the user-facing reply text.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/maazahmad/spendtrace/internal/analytics"
	"github.com/maazahmad/spendtrace/internal/domain"
	"github.com/maazahmad/spendtrace/internal/ledger"
)

// Reply strings. Failure replies are assembled by the caller from the
// returned error; everything here is a normal outcome.
const (
	replyEmptyLedger   = "⚠️ Your ledger is currently empty."
	replyNoMatches     = "🔍 No records match your current filters."
	replyEditNotFound  = "❌ Expense not found."
	replyEditEmpty     = "⚠️ Ledger is empty."
	replyUndoDone      = "✅ Last entry deleted."
	replyNothingToUndo = "⚠️ Nothing to undo."
	replyHelp          = "👋 I am your AI CFO. Send me voice notes to log expenses!"
)

// Router executes intents against a ledger. It is stateless per call: every
// invocation re-reads the full row range, and concurrent calls against the
// same ledger are not serialized here.
type Router struct {
	store ledger.Store
	log   zerolog.Logger
	now   func() time.Time
}

func New(store ledger.Store, log zerolog.Logger) *Router {
	return &Router{store: store, log: log, now: time.Now}
}

// Route executes one intent against the given ledger and returns the reply
// text. Normal outcomes (no match, nothing to undo) come back as replies;
// only store and formatting failures come back as errors.
func (r *Router) Route(ctx context.Context, intent domain.Intent, sheetID string) (string, error) {
	switch intent.Kind {
	case domain.IntentLogExpense:
		return r.logExpense(ctx, intent.Log, sheetID)
	case domain.IntentQuerySpending:
		return r.querySpending(ctx, intent.Query, sheetID)
	case domain.IntentEditExpense:
		return r.editExpense(ctx, intent.Edit, sheetID)
	case domain.IntentUndoLast:
		return r.undoLast(ctx, sheetID)
	default:
		return replyHelp, nil
	}
}

func (r *Router) logExpense(ctx context.Context, data *domain.LogData, sheetID string) (string, error) {
	if data == nil {
		return replyHelp, nil
	}

	row := domain.ExpenseRow{
		Date:     r.parseOrToday(data.Date),
		Item:     withDefault(data.Item, domain.DefaultItem),
		Amount:   data.Amount,
		Currency: withDefault(data.Currency, domain.DefaultCurrency),
		Merchant: withDefault(data.Merchant, domain.DefaultMerchant),
		Category: withDefault(data.Category, domain.DefaultCategory),
	}

	if err := r.store.Append(ctx, sheetID, row); err != nil {
		return "", fmt.Errorf("log expense: %w", err)
	}

	r.log.Info().
		Str("sheet_id", sheetID).
		Str("item", row.Item).
		Float64("amount", row.Amount).
		Msg("Expense logged")

	return fmt.Sprintf("✅ *Expense Saved!*\n🛒 *Item:* %s\n💰 *Cost:* %.2f %s",
		row.Item, row.Amount, row.Currency), nil
}

func (r *Router) querySpending(ctx context.Context, q *domain.QueryFilter, sheetID string) (string, error) {
	if q == nil {
		q = &domain.QueryFilter{}
	}

	rows, err := r.store.ReadAll(ctx, sheetID)
	if err != nil {
		return "", fmt.Errorf("query spending: %w", err)
	}

	filter := analytics.Filter{
		Category:  q.Category,
		Merchant:  q.Merchant,
		Item:      q.Item,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}

	sum, err := analytics.Summarize(rows, filter, r.now())
	switch {
	case errors.Is(err, analytics.ErrEmptyLedger):
		return replyEmptyLedger, nil
	case errors.Is(err, analytics.ErrNoMatches):
		return replyNoMatches, nil
	}

	if sum.Skipped > 0 {
		r.log.Warn().
			Str("sheet_id", sheetID).
			Int("skipped_rows", sum.Skipped).
			Msg("Malformed rows excluded from summary")
	}

	return fmt.Sprintf("🔍 *CFO Report:* 📊 *Spending Report*\n━━━━━━━━━━━━━━\nTotal: *%.2f %s*\nTransactions: %d",
		sum.Total, sum.Currency, sum.Matches), nil
}

// editExpense locates the most recently appended data row whose item contains
// the target substring and whose date matches the target date (any date when
// the LAST_MATCH sentinel is given), then overwrites only its amount and
// currency cells. The backward scan is intentional: the highest-index match
// approximates "the expense the user just mentioned".
func (r *Router) editExpense(ctx context.Context, edit *domain.EditRequest, sheetID string) (string, error) {
	if edit == nil {
		return replyHelp, nil
	}

	rows, err := r.store.ReadAll(ctx, sheetID)
	if err != nil {
		return "", fmt.Errorf("edit expense: %w", err)
	}
	if len(rows) == 0 {
		return replyEditEmpty, nil
	}

	matchAnyDate := strings.EqualFold(edit.TargetDate, domain.LastMatch)
	var targetDate civil.Date
	if !matchAnyDate {
		targetDate, err = civil.ParseDate(edit.TargetDate)
		if err != nil {
			return "", fmt.Errorf("edit expense: invalid target date %q: %w", edit.TargetDate, err)
		}
	}

	searchItem := strings.ToLower(edit.TargetItem)

	for i := len(rows) - 1; i >= 1; i-- {
		row := rows[i]
		if len(row) < 4 {
			continue
		}
		if !strings.Contains(strings.ToLower(row[1]), searchItem) {
			continue
		}
		if !matchAnyDate {
			rowDate, err := civil.ParseDate(strings.TrimSpace(row[0]))
			if err != nil || rowDate != targetDate {
				continue
			}
		}

		rowIndex := i + 1 // sheet rows are 1-based
		values := []interface{}{edit.NewAmount, edit.NewCurrency}
		if err := r.store.UpdateRange(ctx, sheetID, rowIndex, ledger.ColAmount, ledger.ColCurrency, values); err != nil {
			return "", fmt.Errorf("edit expense: %w", err)
		}

		r.log.Info().
			Str("sheet_id", sheetID).
			Int("row", rowIndex).
			Str("item", edit.TargetItem).
			Msg("Expense updated")

		return fmt.Sprintf("✅ Updated **%s** to **%.2f %s**.",
			edit.TargetItem, edit.NewAmount, edit.NewCurrency), nil
	}

	return replyEditNotFound, nil
}

// undoLast clears exactly the last physical data row. The row is blanked in
// place, not shifted; there is no redo and no record of what was removed.
func (r *Router) undoLast(ctx context.Context, sheetID string) (string, error) {
	rows, err := r.store.ReadAll(ctx, sheetID)
	if err != nil {
		return "", fmt.Errorf("undo last: %w", err)
	}
	if len(rows) <= 1 {
		return replyNothingToUndo, nil
	}

	lastRow := len(rows) // 1-based position of the final data row
	if err := r.store.ClearRange(ctx, sheetID, lastRow, ledger.ColDate, ledger.ColCategory); err != nil {
		return "", fmt.Errorf("undo last: %w", err)
	}

	r.log.Info().Str("sheet_id", sheetID).Int("row", lastRow).Msg("Last entry cleared")
	return replyUndoDone, nil
}

func (r *Router) parseOrToday(raw string) civil.Date {
	if d, err := civil.ParseDate(strings.TrimSpace(raw)); err == nil {
		return d
	}
	return civil.DateOf(r.now())
}

func withDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" || strings.EqualFold(v, "null") {
		return fallback
	}
	return v
}

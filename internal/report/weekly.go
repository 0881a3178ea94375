// Package report builds and delivers the weekly spending wrap-up: every
// Sunday evening each registered user gets a summary of their last seven
// days.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maazahmad/spendtrace/internal/analytics"
	"github.com/maazahmad/spendtrace/internal/domain"
	"github.com/maazahmad/spendtrace/internal/ledger"
	"github.com/maazahmad/spendtrace/internal/users"
)

const reportHeader = "📈 *Your Weekly CFO Wrap-up*\n\n"

// Notifier delivers the rendered report.
type Notifier interface {
	SendText(ctx context.Context, to, text string) error
}

// Weekly fans the report out across all registered users.
type Weekly struct {
	users    users.Store
	store    ledger.Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewWeekly(u users.Store, s ledger.Store, n Notifier, log zerolog.Logger) *Weekly {
	return &Weekly{users: u, store: s, notifier: n, log: log, now: time.Now}
}

// Run builds and sends one report per user. A failure for one user is logged
// and does not stop the fan-out; the first error is returned for diagnostics.
func (w *Weekly) Run(ctx context.Context) error {
	all, err := w.users.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("report: list users: %w", err)
	}

	var firstErr error
	for _, u := range all {
		if err := w.sendOne(ctx, u); err != nil {
			w.log.Error().Err(err).Str("from", u.PhoneNumber).Msg("Weekly report failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	w.log.Info().Int("users", len(all)).Msg("Weekly report run finished")
	return firstErr
}

func (w *Weekly) sendOne(ctx context.Context, u domain.User) error {
	rows, err := w.store.ReadAll(ctx, u.SpreadsheetID)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	filter := analytics.Filter{
		StartDate: domain.DateSevenDaysAgo,
		EndDate:   domain.DateToday,
	}
	sum, err := analytics.Summarize(rows, filter, w.now())

	var body string
	switch {
	case errors.Is(err, analytics.ErrEmptyLedger), errors.Is(err, analytics.ErrNoMatches):
		body = reportHeader + "No spending recorded this week. 🎉"
	case err != nil:
		return fmt.Errorf("summarize: %w", err)
	default:
		body = reportHeader + fmt.Sprintf(
			"Total spent: *%.2f %s*\nTransactions: %d",
			sum.Total, sum.Currency, sum.Matches)
	}

	if err := w.notifier.SendText(ctx, u.PhoneNumber, body); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}

// Schedule blocks until ctx is done, firing Run at every occurrence of
// Sunday 21:00 local time.
func (w *Weekly) Schedule(ctx context.Context) {
	for {
		next := nextSundayEvening(w.now())
		w.log.Info().Time("next_run", next).Msg("Weekly report scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := w.Run(ctx); err != nil {
				w.log.Error().Err(err).Msg("Weekly report run had failures")
			}
		}
	}
}

// nextSundayEvening returns the first Sunday 21:00 strictly after now.
func nextSundayEvening(now time.Time) time.Time {
	daysAhead := (int(time.Sunday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), 21, 0, 0, 0, now.Location()).
		AddDate(0, 0, daysAhead)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

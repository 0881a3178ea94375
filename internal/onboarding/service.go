// Package onboarding provisions a private ledger for a new user: clone the
// template, seed it, record the user, and tell them where their ledger lives.
package onboarding

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/maazahmad/spendtrace/internal/domain"
	"github.com/maazahmad/spendtrace/internal/provision"
	"github.com/maazahmad/spendtrace/internal/users"
)

const (
	replyProvisioning = "⚙️ Provisioning your private ledger..."
	replySuccess      = "✅ *Success!* Your ledger is ready:\n"
	replyFailure      = "❌ Setup failed: "
)

// Seeder prepares a freshly provisioned ledger document.
type Seeder interface {
	Seed(ctx context.Context, sheetID string) error
}

// Notifier delivers status messages back to the user.
type Notifier interface {
	SendText(ctx context.Context, to, text string) error
}

// Service runs the provisioning flow.
type Service struct {
	provisioner provision.Provisioner
	seeder      Seeder
	users       users.Store
	notifier    Notifier
	log         zerolog.Logger
}

func NewService(p provision.Provisioner, s Seeder, u users.Store, n Notifier, log zerolog.Logger) *Service {
	return &Service{provisioner: p, seeder: s, users: u, notifier: n, log: log}
}

// Onboard provisions a ledger for the given phone number and shares it with
// email. The user record is saved only once the clone succeeds, so a failed
// run leaves no dangling registration. Repeat onboarding provisions a fresh
// document and repoints the record at it.
func (s *Service) Onboard(ctx context.Context, from, email string) error {
	if err := s.notifier.SendText(ctx, from, replyProvisioning); err != nil {
		s.log.Warn().Err(err).Str("from", from).Msg("Failed to send provisioning notice")
	}

	sheetID, err := s.provisioner.CloneLedger(ctx, email, from)
	if err != nil {
		s.fail(ctx, from, err)
		return err
	}

	if err := s.seeder.Seed(ctx, sheetID); err != nil {
		s.fail(ctx, from, err)
		return err
	}

	if err := s.users.Save(ctx, domain.User{
		PhoneNumber:   from,
		SpreadsheetID: sheetID,
		Email:         email,
	}); err != nil {
		s.fail(ctx, from, err)
		return err
	}

	s.log.Info().
		Str("from", from).
		Str("sheet_id", sheetID).
		Msg("User onboarded")

	if err := s.notifier.SendText(ctx, from, replySuccess+provision.SheetURL(sheetID)); err != nil {
		s.log.Warn().Err(err).Str("from", from).Msg("Failed to send success notice")
	}
	return nil
}

func (s *Service) fail(ctx context.Context, from string, cause error) {
	s.log.Error().Err(cause).Str("from", from).Msg("Onboarding failed")
	if err := s.notifier.SendText(ctx, from, replyFailure+cause.Error()); err != nil {
		s.log.Warn().Err(err).Str("from", from).Msg("Failed to send failure notice")
	}
}

// Command weekly-report runs one weekly report fan-out and exits. The server
// schedules the same run internally; this binary exists for manual reruns and
// for environments that prefer an external scheduler.
package main

import (
	"context"
	"time"

	"google.golang.org/api/option"

	"github.com/maazahmad/spendtrace/internal/config"
	"github.com/maazahmad/spendtrace/internal/ledger"
	"github.com/maazahmad/spendtrace/internal/logger"
	"github.com/maazahmad/spendtrace/internal/report"
	"github.com/maazahmad/spendtrace/internal/users"
	"github.com/maazahmad/spendtrace/internal/whatsapp"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var googleOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		googleOpts = append(googleOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	userStore, err := users.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer userStore.Close()

	sheetStore, err := ledger.NewSheetsStore(ctx, googleOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}

	messenger := whatsapp.NewClient(whatsapp.Options{
		BaseURL:       cfg.WhatsAppAPIURL,
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.PhoneNumberID,
	}, log)

	weekly := report.NewWeekly(userStore, sheetStore, messenger, log)
	if err := weekly.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Weekly report run had failures")
	}

	log.Info().Msg("Weekly report complete")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/maazahmad/spendtrace/internal/ai"
	"github.com/maazahmad/spendtrace/internal/config"
	"github.com/maazahmad/spendtrace/internal/intake"
	"github.com/maazahmad/spendtrace/internal/jobs/inmemory"
	"github.com/maazahmad/spendtrace/internal/ledger"
	"github.com/maazahmad/spendtrace/internal/logger"
	"github.com/maazahmad/spendtrace/internal/media"
	"github.com/maazahmad/spendtrace/internal/onboarding"
	"github.com/maazahmad/spendtrace/internal/processor"
	"github.com/maazahmad/spendtrace/internal/provision"
	"github.com/maazahmad/spendtrace/internal/report"
	"github.com/maazahmad/spendtrace/internal/router"
	"github.com/maazahmad/spendtrace/internal/users"
	"github.com/maazahmad/spendtrace/internal/whatsapp"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	var googleOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		googleOpts = append(googleOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	// Initialize stores and clients
	userStore, err := users.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer userStore.Close()

	sheetStore, err := ledger.NewSheetsStore(ctx, googleOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}

	drive, err := provision.NewDrive(ctx, cfg.TemplateSheetID, cfg.DriveFolderID, googleOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Drive client")
	}

	gemini, err := ai.NewGemini(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	messenger := whatsapp.NewClient(whatsapp.Options{
		BaseURL:       cfg.WhatsAppAPIURL,
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.PhoneNumberID,
	}, log)

	var archiver media.Archiver
	if cfg.MediaBucket != "" {
		gcs, err := media.NewGCSArchiver(ctx, cfg.MediaBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create GCS archiver")
		}
		defer gcs.Close()
		archiver = gcs
	} else {
		log.Warn().Msg("No media bucket configured - voice note archival disabled")
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 5, jobStore)

	onboarder := onboarding.NewService(drive, sheetStore, userStore, messenger, log)

	proc := processor.New(processor.Options{
		Users:       userStore,
		Messenger:   messenger,
		Transcriber: gemini,
		Analyzer:    gemini,
		Router:      router.New(sheetStore, log),
		Onboarder:   onboarder,
		Archiver:    archiver,
	}, log)

	// Start worker in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, proc.Handle); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Weekly report fan-out
	weekly := report.NewWeekly(userStore, sheetStore, messenger, log)
	go weekly.Schedule(workerCtx)

	// Initialize handlers
	webhook := intake.NewWebhook(cfg.VerifyToken, intake.NewDedup(), jobQueue)
	jobsHandler := intake.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			webhook.Verify(w, r)
		case http.MethodPost:
			webhook.Receive(w, r)
		default:
			intake.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			intake.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				intake.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			intake.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		intake.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := intake.Recovery(log)(
		intake.Logger(log)(
			intake.RequestID(log)(mux),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting webhook server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

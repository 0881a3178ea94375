package config

import (
	"fmt"
	"os"
)

// Config holds all service configuration, loaded from the environment.
type Config struct {
	// Port is the HTTP listen port for the webhook server.
	Port string

	// VerifyToken is the secret echoed back during the webhook
	// verification handshake.
	VerifyToken string

	// WhatsAppAPIURL is the Graph API base URL, e.g. https://graph.facebook.com/v19.0.
	WhatsAppAPIURL string
	// WhatsAppToken is the bearer credential for all Graph API calls.
	WhatsAppToken string
	// PhoneNumberID is the sender phone number ID for outbound replies.
	PhoneNumberID string

	// GeminiModel is the model used for transcription and intent analysis.
	GeminiModel string

	// TemplateSheetID is the ledger template cloned for each new user.
	TemplateSheetID string
	// DriveFolderID is the Drive folder that receives cloned ledgers.
	DriveFolderID string
	// CredentialsFile is an optional service-account key path; when empty,
	// Application Default Credentials are used.
	CredentialsFile string

	// DatabaseURL is the Postgres DSN for the user store.
	DatabaseURL string

	// MediaBucket is an optional GCS bucket for voice-note archival.
	// Archival is disabled when empty.
	MediaBucket string
}

// Load reads configuration from the environment. It returns an error for
// missing required values rather than exiting, so callers control shutdown.
func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		VerifyToken:     os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppAPIURL:  getenv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
		WhatsAppToken:   os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		TemplateSheetID: os.Getenv("TEMPLATE_SHEET_ID"),
		DriveFolderID:   os.Getenv("DRIVE_FOLDER_ID"),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MediaBucket:     os.Getenv("MEDIA_BUCKET"),
	}

	required := map[string]string{
		"WHATSAPP_VERIFY_TOKEN":    cfg.VerifyToken,
		"WHATSAPP_TOKEN":           cfg.WhatsAppToken,
		"WHATSAPP_PHONE_NUMBER_ID": cfg.PhoneNumberID,
		"TEMPLATE_SHEET_ID":        cfg.TemplateSheetID,
		"DATABASE_URL":             cfg.DatabaseURL,
	}
	for name, v := range required {
		if v == "" {
			return Config{}, fmt.Errorf("config: %s is required", name)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package domain

import "time"

// User links a WhatsApp handle to its provisioned ledger document.
// Created on first successful onboarding.
type User struct {
	PhoneNumber   string
	SpreadsheetID string
	Email         string
	CreatedAt     time.Time
}

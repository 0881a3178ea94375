// Package whatsapp is a thin client for the WhatsApp Cloud (Graph) API:
// resolving and downloading media, and sending text replies.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Messenger is the outbound surface the rest of the service depends on.
type Messenger interface {
	// GetMediaURL resolves a media ID to a short-lived download URL.
	GetMediaURL(ctx context.Context, mediaID string) (string, error)

	// Download fetches media bytes from a resolved URL.
	Download(ctx context.Context, url string) ([]byte, error)

	// SendText sends a plain text reply to the given phone number.
	SendText(ctx context.Context, to, text string) error
}

// Options configures the Graph API client.
type Options struct {
	// BaseURL is the Graph API root, e.g. https://graph.facebook.com/v19.0.
	BaseURL string
	// Token is the bearer credential attached to every call.
	Token string
	// PhoneNumberID is the sender ID used for outbound messages.
	PhoneNumberID string
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client implements Messenger against the Graph API.
type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	httpClient    *http.Client
	log           zerolog.Logger
}

func NewClient(opts Options, log zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		token:         opts.Token,
		phoneNumberID: opts.PhoneNumberID,
		httpClient:    httpClient,
		log:           log,
	}
}

// GetMediaURL implements Messenger.
func (c *Client) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+mediaID, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: build media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: get media url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("whatsapp: get media url: status %d", resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("whatsapp: decode media response: %w", err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("whatsapp: media response missing url")
	}
	return payload.URL, nil
}

// Download implements Messenger. The URL comes from GetMediaURL and expires
// quickly, so callers download immediately after resolving.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("whatsapp: download media: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: read media body: %w", err)
	}
	return data, nil
}

// SendText implements Messenger. A failed reply is an operational event, not
// a pipeline failure: callers log the returned error and move on.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	body := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("whatsapp: build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("to", to).
			Str("body", string(respBody)).
			Msg("WhatsApp send rejected")
		return fmt.Errorf("whatsapp: send message: status %d", resp.StatusCode)
	}

	return nil
}

var _ Messenger = (*Client)(nil)

// Package ai wraps the Gemini calls: voice-note transcription and the
// transcript-to-intent analysis step.
package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/maazahmad/spendtrace/internal/domain"
)

// Transcriber converts voice-note audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Analyzer classifies a transcript into a structured intent.
type Analyzer interface {
	AnalyzeIntent(ctx context.Context, transcript string) (domain.Intent, error)
}

// Gemini implements Transcriber and Analyzer with one model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the Gemini client. Credentials come from the environment
// (GEMINI_API_KEY or Application Default Credentials).
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

const transcribePrompt = "Transcribe this voice note verbatim. " +
	"Reply with the transcription text only, no preamble and no commentary."

// Transcribe implements Transcriber.
func (g *Gemini) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     audio,
					},
				},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("ai: transcribe: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("ai: transcribe: empty response from model")
	}
	return text, nil
}

// AnalyzeIntent implements Analyzer. The model returns strict JSON matching
// the intent schema; markdown fences are stripped if it ignores instructions.
func (g *Gemini) AnalyzeIntent(ctx context.Context, transcript string) (domain.Intent, error) {
	prompt := buildIntentPrompt(transcript)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("ai: analyze intent: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return domain.Intent{}, fmt.Errorf("ai: analyze intent: empty response from model")
	}

	intent, err := decodeIntent(cleanModelJSON(rawText))
	if err != nil {
		return domain.Intent{}, fmt.Errorf("ai: analyze intent: %w\nraw response: %s", err, rawText)
	}
	return intent, nil
}

// cleanModelJSON strips markdown fences and surrounding junk, keeping only
// the outermost JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

var _ Transcriber = (*Gemini)(nil)
var _ Analyzer = (*Gemini)(nil)

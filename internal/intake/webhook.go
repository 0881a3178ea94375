// Package intake owns the webhook surface: the Meta verification handshake,
// payload decoding, idempotent acceptance, and the handoff to the queue.
package intake

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/maazahmad/spendtrace/internal/jobs"
	"github.com/maazahmad/spendtrace/internal/logger"
)

// Webhook handles the WhatsApp callback endpoints. The POST path never does
// any processing work itself: it acknowledges, gates duplicates, classifies,
// publishes, and returns. Logging uses the request-scoped logger embedded by
// the RequestID middleware.
type Webhook struct {
	verifyToken string
	dedup       *Dedup
	publisher   jobs.Publisher
}

func NewWebhook(verifyToken string, dedup *Dedup, publisher jobs.Publisher) *Webhook {
	return &Webhook{
		verifyToken: verifyToken,
		dedup:       dedup,
		publisher:   publisher,
	}
}

// Verify handles the GET verification handshake. Meta sends hub.mode,
// hub.verify_token and hub.challenge; a matching token echoes the challenge
// back verbatim.
func (h *Webhook) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	log := logger.FromContext(r.Context())
	log.Warn().Str("mode", mode).Msg("Webhook verification rejected")
	http.Error(w, "Verification failed", http.StatusForbidden)
}

// Receive handles POST deliveries. It always answers 200 EVENT_RECEIVED:
// any other status makes the platform redeliver, and redelivery of a payload
// we cannot parse or have already accepted helps nobody.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	defer func() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("EVENT_RECEIVED"))
	}()

	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		log.Warn().Err(err).Msg("Undecodable webhook payload")
		return
	}

	msg, ok := env.firstMessage()
	if !ok {
		log.Debug().Msg("Webhook carried no user message")
		return
	}

	msgID := msg.ID
	if msgID == "" {
		msgID = "default_id"
	}

	if !h.dedup.MarkIfNew(msgID) {
		log.Info().Str("message_id", msgID).Msg("Duplicate delivery suppressed")
		return
	}

	job, ok := classify(msg)
	if !ok {
		log.Debug().Str("type", msg.Type).Msg("Unsupported message type")
		return
	}
	job.MessageID = msgID

	if err := h.publisher.PublishProcessMessage(r.Context(), job); err != nil {
		log.Error().Err(err).Str("message_id", msgID).Msg("Failed to enqueue message")
		return
	}

	log.Info().
		Str("message_id", msgID).
		Str("from", job.From).
		Str("kind", string(job.Kind)).
		Msg("Message accepted")
}

// classify maps a platform message to a job. Audio goes to the transcription
// pipeline; any text containing an @ starts onboarding with the address-like
// word as the email; any other text gets the greeting.
func classify(msg message) (*jobs.ProcessMessageJob, bool) {
	switch msg.Type {
	case "audio":
		if msg.Audio == nil {
			return nil, false
		}
		return &jobs.ProcessMessageJob{
			From:    msg.From,
			Kind:    jobs.MessageKindAudio,
			MediaID: msg.Audio.ID,
		}, true
	case "text":
		if msg.Text == nil {
			return nil, false
		}
		body := strings.TrimSpace(msg.Text.Body)
		if strings.Contains(body, "@") {
			return &jobs.ProcessMessageJob{
				From: msg.From,
				Kind: jobs.MessageKindOnboard,
				Body: emailToken(body),
			}, true
		}
		return &jobs.ProcessMessageJob{
			From: msg.From,
			Kind: jobs.MessageKindGreeting,
			Body: body,
		}, true
	default:
		return nil, false
	}
}

// emailToken pulls the address-like word out of the body, so "my email is
// user@example.com" onboards with just the address. A body that is already
// a bare address comes back unchanged.
func emailToken(s string) string {
	for _, f := range strings.Fields(s) {
		if strings.Contains(f, "@") {
			return strings.Trim(f, ".,;:!?")
		}
	}
	return s
}

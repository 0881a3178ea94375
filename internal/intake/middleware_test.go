package intake

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maazahmad/spendtrace/internal/logger"
)

func TestRequestID_EmbedsRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		log.Info().Msg("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()

	RequestID(log)(inner).ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), "handled")
	assert.Contains(t, buf.String(), "req-42")
}

func TestRequestID_GeneratesIDWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()

	RequestID(log)(inner).ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

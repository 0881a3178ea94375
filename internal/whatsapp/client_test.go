package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maazahmad/spendtrace/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseURL:       srv.URL,
		Token:         "test-token",
		PhoneNumberID: "123456",
		HTTPClient:    srv.Client(),
	}, logger.NewWithWriter(discard{}))
	return c, srv
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestGetMediaURL(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/media-abc", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example/file.ogg"})
	})

	url, err := c.GetMediaURL(context.Background(), "media-abc")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/file.ogg", url)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestGetMediaURL_ErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetMediaURL(context.Background(), "missing")
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte("audio-bytes"))
	})

	data, err := c.Download(context.Background(), srv.URL+"/file.ogg")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestSendText(t *testing.T) {
	var got map[string]interface{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123456/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := c.SendText(context.Background(), "923001234567", "hello")
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "923001234567", got["to"])
	assert.Equal(t, map[string]interface{}{"body": "hello"}, got["text"])
}

func TestSendText_RejectedStatusReturnsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad recipient"}}`))
	})

	err := c.SendText(context.Background(), "not-a-number", "hello")
	assert.Error(t, err)
}

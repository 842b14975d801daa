package adapthttp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := requestID(requestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/test-path", http.NoBody)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/test-path", entry["path"])
	assert.Equal(t, float64(418), entry["status"])
	assert.Equal(t, float64(2), entry["bytes"])
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestIntQuery(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 30},
		{"days=7", 7},
		{"days=0", 30},
		{"days=-2", 30},
		{"days=abc", 30},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tc.query, http.NoBody)
		assert.Equal(t, tc.want, intQuery(r, "days", 30), tc.query)
	}
}

func TestSPAFromDisk_NoDir(t *testing.T) {
	w := httptest.NewRecorder()
	spaFromDisk("").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"loan-simulator/logging"
)

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var seen *logging.Logger
	h := RequestLogger(logging.Discard(), nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
	if assert.NotNil(t, seen) {
		assert.Equal(t, logging.ComponentHTTP, seen.Component())
	}
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	h := RequestLogger(logging.Discard(), nil, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRequestLogger_WritesAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: slog.LevelInfo, Component: logging.ComponentApp, Output: &buf})

	h := RequestLogger(logger, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/loan/simulate", nil))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "status_code=500")
	assert.Contains(t, out, "path=/loan/simulate")
	assert.Contains(t, out, "request_id=")
	assert.Contains(t, out, "client_ip=192.0.2.1")
}

package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/log"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf})
	m := NewMiddleware(logger, func(*http.Request) string { return "10.1.1.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		log.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.True(t, strings.HasPrefix(seen, "req_"), seen)
	assert.Equal(t, seen, rr.Header().Get(HeaderRequestID))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var end map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &end))
	assert.Equal(t, float64(http.StatusTeapot), end[log.FieldStatusCode])
	assert.Equal(t, "10.1.1.1", end[log.FieldClientIP])
	assert.Equal(t, seen, end[log.FieldRequestID])
}

func TestMiddlewareKeepsIncomingID(t *testing.T) {
	m := NewMiddleware(log.New(log.Config{Output: &bytes.Buffer{}}), nil)
	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for in, keep := range map[string]bool{"abc-123": true, "bad id<script>": false, "": false} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, in)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, keep, rr.Header().Get(HeaderRequestID) == in, "input %q", in)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}

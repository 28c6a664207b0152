package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New(nil, "debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(nil, "loud").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(nil, "").GetLevel())
}

func TestMiddleware_WritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	h := middleware.RequestID(Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "inside", inside["message"])
	assert.NotEmpty(t, inside["request_id"])
	assert.Equal(t, "GET", access["method"])
	assert.Equal(t, "/api/health", access["url"])
	assert.EqualValues(t, http.StatusTeapot, access["status"])
	assert.Equal(t, inside["request_id"], access["request_id"])
}

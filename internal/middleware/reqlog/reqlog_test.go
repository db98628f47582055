package reqlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.RequestID(New(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("thé"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/ws/clients?token=eyJhbGciOiJIUzI1NiJ9.secret", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.NotContains(t, buf.String(), "eyJhbGciOiJIUzI1NiJ9")
	assert.NotContains(t, buf.String(), "token")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request completed", line["msg"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/api/ws/clients", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.EqualValues(t, len("thé"), line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}

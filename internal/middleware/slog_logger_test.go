package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sharespace/backend/internal/middleware"
)

func logOnce(t *testing.T, status int, header http.Header) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.NewSlogLogger(logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/matchings/42/accept", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	ctx := context.WithValue(req.Context(), chimiddleware.RequestIDKey, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSlogLogger_logsRequestFields(t *testing.T) {
	entry := logOnce(t, http.StatusOK, http.Header{"X-User-Id": {"u-7"}})

	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "POST", entry["method"])
	require.Equal(t, "/matchings/42/accept", entry["path"])
	require.EqualValues(t, http.StatusOK, entry["status"])
	require.Equal(t, "req-1", entry["request_id"])
	require.Equal(t, "u-7", entry["user_id"])
	require.NotNil(t, entry["duration_ms"])
}

func TestSlogLogger_serverErrorLoggedAtErrorLevel(t *testing.T) {
	entry := logOnce(t, http.StatusInternalServerError, nil)

	require.Equal(t, "ERROR", entry["level"])
	require.NotContains(t, entry, "user_id")
}

func TestSlogLogger_clientErrorStaysInfo(t *testing.T) {
	entry := logOnce(t, http.StatusConflict, nil)

	require.Equal(t, "INFO", entry["level"])
}

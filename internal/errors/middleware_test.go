package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/shared/testutil"
)

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	var hooked interface{}
	h := RecoveryMiddleware(NewErrorHandler(logger, false), func(r *http.Request, recovered interface{}) {
		hooked = recovered
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("summary blew up")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "stack")
	assert.Equal(t, "summary blew up", hooked)
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestRecoveryMiddleware_PassesThrough(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := RecoveryMiddleware(NewErrorHandler(logger, false), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecoveryMiddleware_AbortHandlerRepanics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := RecoveryMiddleware(NewErrorHandler(logger, false), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

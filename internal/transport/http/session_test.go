package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"penguindash/internal/shared/testutil"
)

func TestSessionCtx_ReplacesUnknownCookie(t *testing.T) {
	svc := new(mockDashboardService)
	svc.On("Session", anyCtx, "stale").Return(sessionWithID("fresh"), true)

	logger, _ := testutil.NewTestLogger(t)
	var seen string
	handler := SessionCtx(svc, testCookie, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "fresh", seen)
	assert.Equal(t, "fresh", sessionCookie(t, w).Value)
	svc.AssertExpectations(t)
}

func TestSessionIDFromContext(t *testing.T) {
	assert.Empty(t, SessionIDFromContext(context.Background()))
	assert.Equal(t, "abc", SessionIDFromContext(WithSessionID(context.Background(), "abc")))
}

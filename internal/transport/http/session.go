package http

import (
	"context"
	"log/slog"
	"net/http"

	"penguindash/internal/session"
)

type sessionKey struct{}

// SessionResolver finds or creates the session behind a cookie value
type SessionResolver interface {
	Session(ctx context.Context, id string) (session.Session, bool)
}

// SessionCtx binds every request to a dashboard session. The session id
// travels in the named cookie; a missing or expired id gets a fresh
// session and a new cookie.
func SessionCtx(resolver SessionResolver, cookieName string, logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "session_ctx"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil {
				id = c.Value
			}

			sess, created := resolver.Session(r.Context(), id)
			if created {
				logger.DebugContext(r.Context(), "session cookie issued",
					slog.String("session_id", sess.ID),
					slog.Bool("replaced", id != ""))
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID stores a session id in ctx
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFromContext returns the session bound by SessionCtx, or ""
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

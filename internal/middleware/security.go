package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// SecureHeaders provides configurable security headers
type SecureHeaders struct {
	// HSTS settings
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	// CSP settings
	ContentSecurityPolicy string

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string

	// Development mode relaxes the CSP
	DevMode bool
}

// DefaultSecureHeaders returns secure headers with default settings
func DefaultSecureHeaders() *SecureHeaders {
	return &SecureHeaders{
		HSTSMaxAge:            63072000, // 2 years
		HSTSIncludeSubdomains: true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// Handler returns the middleware handler
func (sh *SecureHeaders) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket upgrades carry no document
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()

		if sh.HSTSMaxAge > 0 && r.TLS != nil {
			hsts := fmt.Sprintf("max-age=%d", sh.HSTSMaxAge)
			if sh.HSTSIncludeSubdomains {
				hsts += "; includeSubDomains"
			}
			h.Set("Strict-Transport-Security", hsts)
		}

		if sh.ContentSecurityPolicy != "" {
			h.Set("Content-Security-Policy", sh.ContentSecurityPolicy)
		} else {
			h.Set("Content-Security-Policy", sh.defaultCSP())
		}

		if sh.XFrameOptions != "" {
			h.Set("X-Frame-Options", sh.XFrameOptions)
		}
		if sh.XContentTypeOptions != "" {
			h.Set("X-Content-Type-Options", sh.XContentTypeOptions)
		}
		if sh.ReferrerPolicy != "" {
			h.Set("Referrer-Policy", sh.ReferrerPolicy)
		}

		if sh.PermissionsPolicy != "" {
			h.Set("Permissions-Policy", sh.PermissionsPolicy)
		} else {
			h.Set("Permissions-Policy", defaultPermissionsPolicy)
		}

		next.ServeHTTP(w, r)
	})
}

// defaultCSP allows plotly.js from its CDN and the same-origin WebSocket
func (sh *SecureHeaders) defaultCSP() string {
	if sh.DevMode {
		return strings.Join([]string{
			"default-src 'self'",
			"script-src 'self' 'unsafe-inline' 'unsafe-eval' *",
			"style-src 'self' 'unsafe-inline' *",
			"img-src * data: blob:",
			"connect-src *",
		}, "; ")
	}

	return strings.Join([]string{
		"default-src 'self'",
		// plotly.js compiles its own shaders and needs unsafe-eval
		"script-src 'self' 'unsafe-eval' https://cdn.plot.ly",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: blob:",
		"connect-src 'self' ws: wss:",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")
}

const defaultPermissionsPolicy = "accelerometer=(), camera=(), geolocation=(), microphone=(), payment=(), usb=()"

// AuditLog records every mutation of a dashboard selection. sessionOf
// resolves the session the request acts on; it may return "".
func AuditLog(logger *slog.Logger, sessionOf func(*http.Request) string) func(next http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "audit"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			var sessionID string
			if sessionOf != nil {
				sessionID = sessionOf(r)
			}

			next.ServeHTTP(ww, r)

			logger.InfoContext(ctx, "selection changed",
				"event_type", "dashboard_state",
				"session_id", sessionID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"remote_addr", r.RemoteAddr,
				"duration", time.Since(start).String(),
			)
		})
	}
}

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/api"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/token"
)

type ctxKey struct{}

// JWT requires a valid bearer token in the Authorization header.
func JWT(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return requireToken(log, secret, bearer)
}

// WebSocketJWT is JWT for websocket handshakes. Browsers cannot set headers
// there, so the token may also come as ?token=.
func WebSocketJWT(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return requireToken(log, secret, func(r *http.Request) string {
		if raw := bearer(r); raw != "" {
			return raw
		}
		return r.URL.Query().Get("token")
	})
}

func requireToken(log *slog.Logger, secret string, extract func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extract(r)
			if raw == "" {
				api.JSONError(w, r, http.StatusUnauthorized, "authentification requise", nil)
				return
			}

			claims, err := token.Parse(secret, raw)
			if err != nil {
				log.Debug("rejected token", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
				api.JSONError(w, r, http.StatusUnauthorized, "session invalide ou expirée", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

func bearer(r *http.Request) string {
	scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

func WithUser(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// User returns the claims set by JWT.
func User(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*token.Claims)
	return c, ok
}

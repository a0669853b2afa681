package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MavuriAlekhya2005/docverify/pkg/handlers"
)

// RoleAdmin is the role required by administrative routes.
const RoleAdmin = "admin"

// ErrForbidden is returned when the authenticated identity lacks the
// required role.
var ErrForbidden = errors.New("auth: forbidden")

// Require returns middleware that rejects requests without a valid bearer
// token and attaches the validated claims to the request context.
func Require(tokens *Tokens, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrTokenInvalid)
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin returns middleware that additionally requires the admin role.
// It must run inside Require.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != RoleAdmin {
				handlers.RespondError(w, logger, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

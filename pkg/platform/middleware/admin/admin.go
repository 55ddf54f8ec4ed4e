// Package admin provides the authorization middleware for operator-only
// endpoints such as the audit log query API.
package admin

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "medtrust/pkg/domain-errors"
	"medtrust/pkg/platform/httputil"
)

// TokenValidator verifies a bearer token and reports the role it carries.
// Token issuance lives with the identity collaborator, not this service.
type TokenValidator interface {
	ValidateToken(tokenString string) (role string, err error)
}

// RequireAdmin rejects requests whose bearer token is missing, invalid, or not
// carrying the admin role.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "bearer token required"))
				return
			}

			role, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.WarnContext(r.Context(), "admin token rejected", "path", r.URL.Path, "error", err)
				httputil.WriteError(w, err)
				return
			}
			if role != "admin" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

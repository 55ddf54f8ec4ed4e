// Package httptransport assembles the HTTP surface: middleware chain, public
// access endpoints, the admin-guarded audit API, and the operational routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	accesshandler "medtrust/internal/access/handler"
	audithandler "medtrust/internal/audit/handler"
	"medtrust/internal/platform/metrics"
	"medtrust/pkg/platform/httputil"
	"medtrust/pkg/platform/middleware/admin"
	"medtrust/pkg/platform/middleware/metadata"
	"medtrust/pkg/requestcontext"
)

// Dependencies are the wired collaborators the router mounts.
type Dependencies struct {
	Logger         *slog.Logger
	Access         *accesshandler.Handler
	Audit          *audithandler.Handler
	TokenValidator admin.TokenValidator
	HTTPMetrics    *metrics.HTTP

	// HealthChecks are named backend probes run by /healthz. Optional.
	HealthChecks map[string]func(context.Context) error
}

// NewRouter builds the service router. Middleware order matters: request ID
// and client metadata must be in place before any handler or metric runs.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(metadata.ClientMetadata)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Instrument)
	}

	r.Get("/healthz", healthz(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		deps.Access.Routes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdmin(deps.TokenValidator, deps.Logger))
		deps.Audit.Routes(r)
	})

	return r
}

// requestID honors an upstream X-Request-ID when present so traces stay
// correlated across the proxy, otherwise mints one. It also pins the request
// time so every downstream consumer sees the same instant.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func healthz(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}

		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}

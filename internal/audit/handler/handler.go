// Package handler exposes the audit ledger query API. Mounted behind the
// admin middleware; the ledger itself has no write endpoint.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"medtrust/internal/audit"
	dErrors "medtrust/pkg/domain-errors"
	"medtrust/pkg/platform/httputil"
)

// defaultLimit caps unbounded queries so an empty filter cannot dump the
// whole ledger in one response.
const defaultLimit = 100

// Handler holds the audit endpoints.
type Handler struct {
	svc    *audit.Service
	logger *slog.Logger
}

// NewHandler constructs the audit handler.
func NewHandler(svc *audit.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the audit endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/logs", h.Logs)
}

// Logs handles GET /logs. Filters: identity_id, patient_id, from, to
// (RFC 3339), limit.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.svc.Query(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "audit query failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, logsResponse{
		Entries: newEntryResponses(entries),
		Count:   len(entries),
	})
}

func parseFilter(r *http.Request) (audit.Filter, error) {
	q := r.URL.Query()
	filter := audit.Filter{
		IdentityID: q.Get("identity_id"),
		PatientID:  q.Get("patient_id"),
		Limit:      defaultLimit,
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "from must be RFC 3339")
		}
		filter.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "to must be RFC 3339")
		}
		filter.To = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return audit.Filter{}, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
		}
		filter.Limit = n
	}
	return filter, nil
}

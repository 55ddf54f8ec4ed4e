// Package handler exposes the decision engine over HTTP. Handlers translate
// request shapes and decision reasons; all policy lives in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medtrust/internal/access"
	"medtrust/internal/identity"
	"medtrust/pkg/platform/httputil"
	"medtrust/pkg/requestcontext"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks medtrust/internal/access/handler Service

// Service is the decision engine surface the handlers need.
type Service interface {
	EvaluateNormal(ctx context.Context, req access.Request) access.Decision
	EvaluateRestricted(ctx context.Context, req access.Request) access.Decision
	EvaluateEmergency(ctx context.Context, req access.Request) access.Decision
	EvaluateTemporary(ctx context.Context, req access.Request) access.Decision
	PrecheckJustification(ctx context.Context, text string) access.PrecheckResult
}

// Handler holds the access endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// NewHandler constructs the access handler.
func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the access endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/access/normal", h.Normal)
	r.Post("/access/restricted", h.Restricted)
	r.Post("/access/emergency", h.Emergency)
	r.Post("/access/temporary", h.Temporary)
	r.Post("/access/precheck", h.Precheck)
}

// Normal handles POST /access/normal.
func (h *Handler) Normal(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.EvaluateNormal)
}

// Restricted handles POST /access/restricted.
func (h *Handler) Restricted(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.EvaluateRestricted)
}

// Emergency handles POST /access/emergency.
func (h *Handler) Emergency(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.EvaluateEmergency)
}

// Temporary handles POST /access/temporary.
func (h *Handler) Temporary(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.EvaluateTemporary)
}

// Precheck handles POST /access/precheck. Advisory only; always 200 on a
// well-formed request.
func (h *Handler) Precheck(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[precheckRequest](w, r, h.logger)
	if !ok {
		return
	}

	result := h.svc.PrecheckJustification(r.Context(), req.Justification)
	httputil.WriteJSON(w, http.StatusOK, precheckResponse{
		Status: string(result.Status),
		Score:  result.Score,
	})
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, eval func(context.Context, access.Request) access.Decision) {
	req, ok := httputil.DecodeJSON[accessRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	dec := eval(ctx, access.Request{
		IdentityID:    req.UserID,
		Role:          identity.ParseRole(req.Role),
		PatientName:   req.PatientName,
		Justification: req.Justification,
		SourceIP:      requestcontext.ClientIP(ctx),
		Timestamp:     requestcontext.Now(ctx),
	})
	httputil.WriteJSON(w, statusFor(dec), newDecisionResponse(dec))
}

// statusFor maps a decision to an HTTP status. Flagged requests read as
// forbidden to the caller; the distinction lives in the response body and the
// ledger.
func statusFor(dec access.Decision) int {
	switch dec.Outcome {
	case access.OutcomeGranted:
		return http.StatusOK
	case access.OutcomeFlagged:
		return http.StatusForbidden
	}
	switch dec.Reason {
	case access.ReasonPatientNotFound:
		return http.StatusNotFound
	case access.ReasonJustificationRequired:
		return http.StatusBadRequest
	case access.ReasonRecordUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}

package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medtrust/internal/access/metrics"
	"medtrust/internal/access/ports"
	"medtrust/internal/analyzer"
	"medtrust/internal/audit"
	"medtrust/internal/identity"
	"medtrust/internal/patient"
	"medtrust/internal/trust"
	"medtrust/pkg/requestcontext"
)

// Service is the decision engine. It owns the ordering guarantees: the trust
// score is mutated exactly once per decided request, before the audit entry is
// recorded, and collaborator failures degrade toward denial rather than
// propagating.
type Service struct {
	policy    Policy
	network   ports.NetworkClassifier
	trust     ports.TrustStore
	analyzer  ports.Analyzer
	audit     ports.AuditLog
	patients  ports.PatientDirectory
	decrypter ports.Decrypter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches decision metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the engine. All non-option collaborators are required.
func NewService(
	policy Policy,
	network ports.NetworkClassifier,
	trustStore ports.TrustStore,
	justifications ports.Analyzer,
	auditLog ports.AuditLog,
	patients ports.PatientDirectory,
	decrypter ports.Decrypter,
	opts ...Option,
) (*Service, error) {
	if network == nil {
		return nil, fmt.Errorf("access: network classifier is required")
	}
	if trustStore == nil {
		return nil, fmt.Errorf("access: trust store is required")
	}
	if justifications == nil {
		return nil, fmt.Errorf("access: analyzer is required")
	}
	if auditLog == nil {
		return nil, fmt.Errorf("access: audit log is required")
	}
	if patients == nil {
		return nil, fmt.Errorf("access: patient directory is required")
	}
	if decrypter == nil {
		return nil, fmt.Errorf("access: decrypter is required")
	}

	s := &Service{
		policy:    policy,
		network:   network,
		trust:     trustStore,
		analyzer:  justifications,
		audit:     auditLog,
		patients:  patients,
		decrypter: decrypter,
		logger:    slog.Default(),
		tracer:    otel.Tracer("medtrust/access"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EvaluateNormal decides a normal-tier request: in-network callers get the
// redacted summary, out-of-network callers are blocked with a trust penalty.
func (s *Service) EvaluateNormal(ctx context.Context, req Request) Decision {
	return s.run(ctx, TierNormal, req, s.normal)
}

// EvaluateRestricted decides a restricted-tier request. In-network callers
// are granted directly; out-of-network callers must pass the trust threshold
// and present a justification the analyzer validates.
func (s *Service) EvaluateRestricted(ctx context.Context, req Request) Decision {
	return s.run(ctx, TierRestricted, req, s.restricted)
}

// EvaluateEmergency decides a break-glass request. It ignores network
// location and trust score entirely; the justification alone decides, and
// abuse is penalized hard.
func (s *Service) EvaluateEmergency(ctx context.Context, req Request) Decision {
	return s.run(ctx, TierEmergency, req, s.emergency)
}

// EvaluateTemporary decides a nurse's 30-minute temporary access request.
// Only nurses on the trusted network qualify.
func (s *Service) EvaluateTemporary(ctx context.Context, req Request) Decision {
	return s.run(ctx, TierTemporary, req, s.temporary)
}

func (s *Service) run(ctx context.Context, tier Tier, req Request, eval func(context.Context, Request) Decision) Decision {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "access.evaluate",
		trace.WithAttributes(attribute.String("access.tier", string(tier))))
	defer span.End()

	dec := eval(ctx, req)

	span.SetAttributes(
		attribute.String("access.outcome", string(dec.Outcome)),
		attribute.String("access.reason", dec.Reason),
	)
	s.metrics.ObserveDecision(string(tier), string(dec.Outcome), time.Since(start))
	s.logger.InfoContext(ctx, "access decision",
		"tier", tier,
		"identity_id", req.IdentityID,
		"outcome", dec.Outcome,
		"reason", dec.Reason,
		"trust_delta", dec.TrustDelta,
	)
	return dec
}

func (s *Service) normal(ctx context.Context, req Request) Decision {
	key := s.trustKey(req)

	if !s.network.IsTrusted(req.SourceIP) {
		delta := s.policy.DeltaOutsideNetwork
		score, known := s.applyDelta(ctx, key, delta)
		s.noteFactors(ctx, key, ReasonOutsideNetwork, delta)
		s.record(ctx, req, TierNormal, audit.ActionNormalAccess, audit.StatusBlocked, nil, req.PatientName, score, known)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonOutsideNetwork, TrustDelta: delta, TrustScore: score}
	}

	rec, err := s.patients.FindByName(ctx, req.PatientName)
	if err != nil {
		// Unknown patient is not an access violation: no penalty, no entry.
		if errors.Is(err, patient.ErrNotFound) {
			return Decision{Outcome: OutcomeDenied, Reason: ReasonPatientNotFound}
		}
		s.logger.ErrorContext(ctx, "patient lookup failed", "patient", req.PatientName, "error", err)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonRecordUnavailable}
	}

	delta := s.policy.DeltaNormalGrant
	score, known := s.applyDelta(ctx, key, delta)
	s.record(ctx, req, TierNormal, audit.ActionNormalAccess, audit.StatusSuccess, nil, rec.ID, score, known)
	return Decision{
		Outcome:    OutcomeGranted,
		Reason:     ReasonGranted,
		TrustDelta: delta,
		TrustScore: score,
		Patient:    rec.Summary(),
	}
}

func (s *Service) restricted(ctx context.Context, req Request) Decision {
	key := s.trustKey(req)

	if s.network.IsTrusted(req.SourceIP) {
		delta := s.policy.DeltaRestrictedInNetwork
		score, known := s.applyDelta(ctx, key, delta)
		s.record(ctx, req, TierRestricted, audit.ActionRestrictedInNetwork, audit.StatusGranted, nil, req.PatientName, score, known)
		return s.openRecord(ctx, req, Decision{
			Outcome:    OutcomeGranted,
			Reason:     ReasonGranted,
			TrustDelta: delta,
			TrustScore: score,
		})
	}

	score := s.currentScore(ctx, key)
	if score < s.policy.TrustThreshold {
		delta := s.policy.DeltaLowTrust
		updated, known := s.applyDelta(ctx, key, delta)
		s.noteFactors(ctx, key, ReasonLowTrust, delta)
		s.record(ctx, req, TierRestricted, audit.ActionRestrictedLowTrust, audit.StatusDenied, nil, req.PatientName, updated, known)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonLowTrust, TrustDelta: delta, TrustScore: updated}
	}

	// A missing justification is a request-shape error, not a violation:
	// no trust mutation, no ledger entry.
	if strings.TrimSpace(req.Justification) == "" {
		return Decision{Outcome: OutcomeDenied, Reason: ReasonJustificationRequired}
	}

	res := s.analyze(ctx, req.Justification)
	valid := (res.Label == analyzer.LabelEmergency || res.Label == analyzer.LabelRestricted) &&
		res.Confidence > s.policy.RestrictedMinConfidence

	delta := s.policy.DeltaJustificationFlagged
	status := audit.StatusFlagged
	if valid {
		delta = s.policy.DeltaJustificationValid
		status = audit.StatusGranted
	}
	updated, known := s.applyDelta(ctx, key, delta)
	s.record(ctx, req, TierRestricted, audit.ActionRestrictedOutside, status, &res, req.PatientName, updated, known)

	if !valid {
		s.noteFactors(ctx, key, ReasonJustificationFlagged, delta)
		return Decision{Outcome: OutcomeFlagged, Reason: ReasonJustificationFlagged, TrustDelta: delta, TrustScore: updated}
	}
	return s.openRecord(ctx, req, Decision{
		Outcome:    OutcomeGranted,
		Reason:     ReasonGranted,
		TrustDelta: delta,
		TrustScore: updated,
	})
}

func (s *Service) emergency(ctx context.Context, req Request) Decision {
	key := s.trustKey(req)

	// Break-glass with no stated reason is itself suspicious: a small
	// penalty and a ledger entry, without spending an analyzer call.
	if strings.TrimSpace(req.Justification) == "" {
		delta := s.policy.DeltaEmergencyMissing
		score, known := s.applyDelta(ctx, key, delta)
		s.record(ctx, req, TierEmergency, audit.ActionEmergencyAccess, audit.StatusDenied, nil, req.PatientName, score, known)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonJustificationRequired, TrustDelta: delta, TrustScore: score}
	}

	res := s.analyze(ctx, req.Justification)
	genuine := res.Label == analyzer.LabelEmergency && res.Confidence > s.policy.EmergencyMinConfidence

	delta := s.policy.DeltaEmergencyAbuse
	status := audit.StatusFlagged
	if genuine {
		delta = s.policy.DeltaEmergencyGenuine
		status = audit.StatusApproved
	}
	score, known := s.applyDelta(ctx, key, delta)
	s.record(ctx, req, TierEmergency, audit.ActionEmergencyAccess, status, &res, req.PatientName, score, known)

	if !genuine {
		s.noteFactors(ctx, key, ReasonNotGenuine, delta)
		return Decision{Outcome: OutcomeFlagged, Reason: ReasonNotGenuine, TrustDelta: delta, TrustScore: score}
	}
	return s.openRecord(ctx, req, Decision{
		Outcome:    OutcomeGranted,
		Reason:     ReasonGranted,
		TrustDelta: delta,
		TrustScore: score,
	})
}

func (s *Service) temporary(ctx context.Context, req Request) Decision {
	if req.Role != identity.RoleNurse {
		return Decision{Outcome: OutcomeDenied, Reason: ReasonRoleNotPermitted}
	}
	key := s.trustKey(req)

	if !s.network.IsTrusted(req.SourceIP) {
		delta := s.policy.DeltaTemporaryOutside
		score, known := s.applyDelta(ctx, key, delta)
		s.noteFactors(ctx, key, ReasonOutsideNetwork, delta)
		s.record(ctx, req, TierTemporary, audit.ActionTemporaryAccess, audit.StatusDenied, nil, req.PatientName, score, known)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonOutsideNetwork, TrustDelta: delta, TrustScore: score}
	}

	rec, err := s.patients.FindByName(ctx, req.PatientName)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return Decision{Outcome: OutcomeDenied, Reason: ReasonPatientNotFound}
		}
		s.logger.ErrorContext(ctx, "patient lookup failed", "patient", req.PatientName, "error", err)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonRecordUnavailable}
	}

	delta := s.policy.DeltaTemporaryGrant
	score, known := s.applyDelta(ctx, key, delta)
	s.record(ctx, req, TierTemporary, audit.ActionTemporaryAccess, audit.StatusGranted, nil, rec.ID, score, known)

	open, err := s.decrypter.Decrypt(rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "record decrypt failed", "patient_id", rec.ID, "error", err)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonRecordUnavailable, TrustDelta: delta, TrustScore: score}
	}
	return Decision{
		Outcome:    OutcomeGranted,
		Reason:     ReasonGranted,
		TrustDelta: delta,
		TrustScore: score,
		Patient:    open,
		ExpiresIn:  s.policy.TemporaryAccessTTL,
	}
}

// PrecheckJustification gives typists a live hint about a draft justification.
// It is advisory only: it mutates no trust state and writes no ledger entry,
// and its bands are deliberately stricter than the decision thresholds.
func (s *Service) PrecheckJustification(ctx context.Context, text string) PrecheckResult {
	ctx, span := s.tracer.Start(ctx, "access.precheck")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return PrecheckResult{Status: PrecheckInvalid}
	}
	res, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.metrics.AnalyzerFailure()
		s.logger.WarnContext(ctx, "precheck analysis failed", "error", err)
		return PrecheckResult{Status: PrecheckInvalid}
	}

	status := PrecheckInvalid
	switch res.Label {
	case analyzer.LabelEmergency:
		status = PrecheckWeak
		if res.Confidence > precheckEmergencyStrong {
			status = PrecheckValid
		}
	case analyzer.LabelRestricted:
		status = PrecheckWeak
		if res.Confidence > precheckRestrictedStrong {
			status = PrecheckValid
		}
	}
	return PrecheckResult{Status: status, Score: res.Confidence}
}

// openRecord resolves and decrypts the patient record for an already-granted
// elevated-tier decision. Lookup or decrypt failure downgrades the decision to
// a denial; the trust consequence already applied stands.
func (s *Service) openRecord(ctx context.Context, req Request, dec Decision) Decision {
	rec, err := s.patients.FindByName(ctx, req.PatientName)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			dec.Outcome = OutcomeDenied
			dec.Reason = ReasonPatientNotFound
			return dec
		}
		s.logger.ErrorContext(ctx, "patient lookup failed", "patient", req.PatientName, "error", err)
		dec.Outcome = OutcomeDenied
		dec.Reason = ReasonRecordUnavailable
		return dec
	}

	open, err := s.decrypter.Decrypt(rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "record decrypt failed", "patient_id", rec.ID, "error", err)
		dec.Outcome = OutcomeDenied
		dec.Reason = ReasonRecordUnavailable
		return dec
	}
	dec.Patient = open
	return dec
}

func (s *Service) trustKey(req Request) trust.Key {
	return trust.Key{IdentityID: req.IdentityID}
}

// applyDelta mutates the trust score. A store failure is logged and reported
// as unknown; it never blocks the decision already taken.
func (s *Service) applyDelta(ctx context.Context, key trust.Key, delta float64) (float64, bool) {
	score, err := s.trust.ApplyDelta(ctx, key, delta)
	if err != nil {
		s.logger.ErrorContext(ctx, "trust delta failed",
			"identity_id", key.IdentityID, "delta", delta, "error", err)
		return 0, false
	}
	return score, true
}

// analyze classifies a justification. Any analyzer error or timeout becomes
// an unclassified result so degraded infrastructure fails toward denial,
// never toward silent approval.
func (s *Service) analyze(ctx context.Context, text string) analyzer.Result {
	res, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.metrics.AnalyzerFailure()
		s.logger.WarnContext(ctx, "justification analysis failed", "error", err)
		return analyzer.Failed()
	}
	return res
}

// currentScore reads the trust score, falling back to the policy default when
// the store cannot answer so the decision can still be made.
func (s *Service) currentScore(ctx context.Context, key trust.Key) float64 {
	score, err := s.trust.Score(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "trust score read failed, assuming default",
			"identity_id", key.IdentityID, "default", s.policy.DefaultScore, "error", err)
		return s.policy.DefaultScore
	}
	return score
}

// noteFactors annotates the trust record with why the last penalty happened.
// Informational only, best effort.
func (s *Service) noteFactors(ctx context.Context, key trust.Key, reason string, delta float64) {
	err := s.trust.SetFactors(ctx, key, map[string]any{
		"last_penalty_reason": reason,
		"last_penalty_delta":  delta,
	})
	if err != nil {
		s.logger.DebugContext(ctx, "trust factors update failed",
			"identity_id", key.IdentityID, "error", err)
	}
}

func (s *Service) record(
	ctx context.Context,
	req Request,
	tier Tier,
	action audit.Action,
	status audit.Status,
	res *analyzer.Result,
	patientRef string,
	score float64,
	scoreKnown bool,
) {
	factors := map[string]any{}
	if device := requestcontext.DeviceName(ctx); device != "" {
		factors["device"] = device
	}
	if scoreKnown {
		factors["trust_score"] = score
	}

	entry := audit.Entry{
		IdentityID:    req.IdentityID,
		Role:          string(req.Role),
		PatientID:     patientRef,
		Tier:          string(tier),
		Action:        action,
		Justification: req.Justification,
		IP:            req.SourceIP,
		Status:        status,
		Factors:       factors,
		RequestID:     requestcontext.RequestID(ctx),
		Timestamp:     req.Timestamp,
	}
	if res != nil {
		entry.AILabel = string(res.Label)
		entry.AIConfidence = res.Confidence
	}
	s.audit.Record(ctx, entry)
}

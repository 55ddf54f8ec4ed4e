// Package access implements the adaptive access-control engine: three access
// tiers with distinct gating policies, each consuming the caller's network
// location, trust score, and (when required) an analyzed justification.
package access

import (
	"time"

	"medtrust/internal/identity"
	"medtrust/internal/patient"
)

// Tier is one of the three access pathways.
type Tier string

const (
	TierNormal     Tier = "normal"
	TierRestricted Tier = "restricted"
	TierEmergency  Tier = "emergency"
	// TierTemporary is the nurse-only in-network 30-minute grant.
	TierTemporary Tier = "temporary"
)

// Outcome is the engine's verdict for one request.
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
	// OutcomeFlagged is not an outright denial: the request is recorded
	// for human review and the payload is withheld.
	OutcomeFlagged Outcome = "flagged"
)

// Reason codes attached to decisions. Transport maps these to HTTP statuses;
// the engine itself never speaks HTTP.
const (
	ReasonGranted               = "granted"
	ReasonOutsideNetwork        = "outside_network"
	ReasonPatientNotFound       = "patient_not_found"
	ReasonLowTrust              = "low_trust"
	ReasonJustificationRequired = "justification_required"
	ReasonJustificationFlagged  = "justification_flagged"
	ReasonNotGenuine            = "justification_not_genuine"
	ReasonRoleNotPermitted      = "role_not_permitted"
	ReasonRecordUnavailable     = "record_unavailable"
)

// Request is the ephemeral value object handed to the engine per call.
type Request struct {
	IdentityID    string
	Role          identity.Role
	PatientName   string
	Justification string
	SourceIP      string
	Timestamp     time.Time
}

// Decision is the engine's ephemeral result. Patient is only populated on a
// grant; TrustScore is the post-update score when a delta was applied.
type Decision struct {
	Outcome    Outcome
	Reason     string
	TrustDelta float64
	TrustScore float64
	Patient    *patient.Record
	// ExpiresIn is set for temporary grants only.
	ExpiresIn time.Duration
}

// PrecheckStatus is the advisory hint returned while a user is still typing a
// justification. It never substitutes for an authoritative decision.
type PrecheckStatus string

const (
	PrecheckValid   PrecheckStatus = "valid"
	PrecheckWeak    PrecheckStatus = "weak"
	PrecheckInvalid PrecheckStatus = "invalid"
)

// PrecheckResult is the advisory output of the justification precheck.
type PrecheckResult struct {
	Status PrecheckStatus
	Score  float64
}

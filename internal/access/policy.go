package access

import "time"

// Policy is the per-deployment tuning table for the decision engine. The
// ordering rules are fixed in the evaluation procedures; tiers differ only in
// the thresholds and deltas defined here.
type Policy struct {
	// TrustThreshold gates out-of-network restricted access. Callers below
	// it are rejected before any analyzer call is spent.
	TrustThreshold float64

	// DefaultScore is assumed when the trust store cannot produce a score.
	// It must match the default injected into the store.
	DefaultScore float64

	// RestrictedMinConfidence is the analyzer confidence a justification
	// must exceed to validate out-of-network restricted access.
	RestrictedMinConfidence float64

	// EmergencyMinConfidence is the stricter bar for genuine break-glass
	// access: the label must be emergency and confidence must exceed this.
	EmergencyMinConfidence float64

	DeltaOutsideNetwork       float64
	DeltaNormalGrant          float64
	DeltaRestrictedInNetwork  float64
	DeltaLowTrust             float64
	DeltaJustificationValid   float64
	DeltaJustificationFlagged float64
	DeltaEmergencyMissing     float64
	DeltaEmergencyGenuine     float64
	DeltaEmergencyAbuse       float64
	DeltaTemporaryOutside     float64
	DeltaTemporaryGrant       float64

	// TemporaryAccessTTL is the validity window reported on nurse
	// temporary grants.
	TemporaryAccessTTL time.Duration
}

// DefaultPolicy returns the production policy table.
func DefaultPolicy() Policy {
	return Policy{
		TrustThreshold:          40,
		DefaultScore:            50,
		RestrictedMinConfidence: 0.55,
		EmergencyMinConfidence:  0.70,

		DeltaOutsideNetwork:       -15,
		DeltaNormalGrant:          2,
		DeltaRestrictedInNetwork:  1,
		DeltaLowTrust:             -5,
		DeltaJustificationValid:   2,
		DeltaJustificationFlagged: -3,
		DeltaEmergencyMissing:     -2,
		DeltaEmergencyGenuine:     3,
		DeltaEmergencyAbuse:       -10,
		DeltaTemporaryOutside:     -3,
		DeltaTemporaryGrant:       1,

		TemporaryAccessTTL: 30 * time.Minute,
	}
}

// Precheck hint bands. Advisory only; the authoritative thresholds above are
// deliberately separate.
const (
	precheckEmergencyStrong  = 0.80
	precheckRestrictedStrong = 0.70
)

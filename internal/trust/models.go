// Package trust models the per-identity trust score: a bounded reputation
// value mutated only by the access decision engine through clamped deltas.
package trust

import "time"

// Score bounds. ApplyDelta clamps into this range; a stored score outside it
// is a store bug.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Key identifies a trust score entry. PatientID is optional: empty means the
// score applies to the identity across all patients.
type Key struct {
	IdentityID string
	PatientID  string
}

// String renders the key for map and cache addressing.
func (k Key) String() string {
	if k.PatientID == "" {
		return k.IdentityID
	}
	return k.IdentityID + ":" + k.PatientID
}

// TrustScore is the stored state for one key.
type TrustScore struct {
	Key         Key
	Score       float64
	LastUpdated time.Time
	// Factors is an informational explanation of the current score for
	// audit and debugging. Last-write-wins semantics are acceptable here.
	Factors map[string]any
}

// Clamp bounds a score into [MinScore, MaxScore].
func Clamp(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

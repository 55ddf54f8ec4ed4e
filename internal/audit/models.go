// Package audit is the append-only compliance ledger. Every access decision
// produces exactly one entry; entries are never mutated or deleted.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Status records the decision outcome as the compliance trail sees it.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusBlocked Status = "BLOCKED"
	StatusGranted Status = "Granted"
	StatusDenied  Status = "Denied"
	StatusFlagged Status = "Flagged"
	// StatusApproved marks genuine emergency break-glass grants; kept
	// distinct from Granted so emergency usage can be reviewed separately.
	StatusApproved Status = "Approved"
)

// Action names the access pathway that produced an entry.
type Action string

const (
	ActionNormalAccess        Action = "NORMAL_ACCESS"
	ActionRestrictedInNetwork Action = "Restricted Access (In-Network)"
	ActionRestrictedLowTrust  Action = "Restricted Access (Low Trust)"
	ActionRestrictedOutside   Action = "Restricted Access (Outside Network)"
	ActionEmergencyAccess     Action = "Emergency Access"
	ActionTemporaryAccess     Action = "Temporary Access Request"
)

// Entry is one append-only audit record. AILabel and AIConfidence are only
// set when the decision consumed an analyzer result.
type Entry struct {
	ID            uuid.UUID
	IdentityID    string
	Role          string
	PatientID     string
	Tier          string
	Action        Action
	Justification string
	AILabel       string
	AIConfidence  float64
	IP            string
	Status        Status
	// Factors carries decision context such as the post-update trust score
	// and the caller's device display name.
	Factors   map[string]any
	RequestID string
	Timestamp time.Time
}

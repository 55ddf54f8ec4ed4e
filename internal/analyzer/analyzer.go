// Package analyzer defines the justification classifier contract and its HTTP
// client. The classifier model itself is an external service; the engine only
// depends on the (label, confidence) pair.
package analyzer

import "strings"

// Label classifies a free-text justification.
type Label string

const (
	LabelEmergency  Label = "emergency"
	LabelRestricted Label = "restricted"
	LabelOther      Label = "other"
)

// Result is the classifier output for one justification.
type Result struct {
	Label      Label
	Confidence float64
}

// Failed is the result substituted for any analyzer error or timeout.
// It fails toward denial, never toward silent approval.
func Failed() Result {
	return Result{Label: LabelOther, Confidence: 0}
}

// ParseLabel normalizes a label string from the classifier. Anything the
// engine does not recognize (invalid, admin, non-medical, ...) maps to other.
func ParseLabel(s string) Label {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case LabelEmergency:
		return LabelEmergency
	case LabelRestricted:
		return LabelRestricted
	default:
		return LabelOther
	}
}

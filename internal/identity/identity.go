// Package identity holds the principal model shared by the decision engine
// and audit trail. Identities are created and managed by the user-management
// collaborator; this service only reads IDs and roles.
package identity

import "strings"

// Role classifies a principal making an access request.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
)

// Identity is a principal making a request.
type Identity struct {
	ID   string
	Role Role
}

// ParseRole normalizes a role string. Unknown roles map to the empty Role so
// callers can treat them as a request-shape error.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDoctor:
		return RoleDoctor
	case RoleNurse:
		return RoleNurse
	case RoleAdmin:
		return RoleAdmin
	case RolePatient:
		return RolePatient
	default:
		return ""
	}
}

package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Role constants
const (
	// RoleViewer may read mines, assessments and alerts.
	RoleViewer = "viewer"
	// RoleOperator may additionally submit readings and dispatch alerts.
	RoleOperator = "operator"
	// RoleAdmin passes every role check.
	RoleAdmin = "admin"
)

// Claims represents the JWT claims of a rockfall API caller.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Allows reports whether the claims satisfy any of the required roles.
// An empty requirement allows every authenticated caller.
func (c Claims) Allows(required ...string) bool {
	if len(required) == 0 || c.HasRole(RoleAdmin) {
		return true
	}
	for _, r := range required {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

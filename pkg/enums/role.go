package enums

import (
	"fmt"
	"strings"
)

// Role represents the single effective role carried by a user.
type Role string

const (
	RoleClient      Role = "Client"
	RolePrestataire Role = "Prestataire"
	RoleAdmin       Role = "Admin"
)

var validRoles = []Role{
	RoleClient,
	RolePrestataire,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Normalized returns the upper-cased form used for role matching in the graph.
func (r Role) Normalized() string {
	return strings.ToUpper(string(r))
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role, matching case-insensitively.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

package models

import (
	"strings"
	"time"
)

// Staff roles as the API spells them.
const (
	RoleAdmin      = "Admin"
	RoleTechnician = "Tecnico"
	RoleHelper     = "Ajudante"
	RoleJourneyman = "MeioOficial"
	RoleMechanic   = "Mecanico"
)

// Roles lists the assignable staff roles.
var Roles = []string{RoleAdmin, RoleTechnician, RoleHelper, RoleJourneyman, RoleMechanic}

// NormalizeRole lower-cases a role for comparisons.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// ValidRole reports whether role is one of Roles, ignoring case.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if strings.EqualFold(r, strings.TrimSpace(role)) {
			return true
		}
	}
	return false
}

// Session is the logged-in user.
type Session struct {
	Email     string     `json:"email"`
	Name      string     `json:"nome"`
	Role      string     `json:"role"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the session carries an expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// HasRole reports whether the session role is one of roles, ignoring case.
func (s Session) HasRole(roles ...string) bool {
	r := NormalizeRole(s.Role)
	for _, want := range roles {
		if NormalizeRole(want) == r {
			return true
		}
	}
	return false
}

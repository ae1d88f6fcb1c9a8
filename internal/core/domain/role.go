package domain

import "strings"

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleDoctor Role = "Doctor"
)

// ErrUnknownRole is returned when a role string is neither Admin nor Doctor.
var ErrUnknownRole = Invalid("role must be one of: Admin, Doctor")

// ParseRole maps a role name, case-insensitively, to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "doctor":
		return RoleDoctor, nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor
}

func (r Role) String() string { return string(r) }

package domain

import "time"

// User models an account that can log in to the pharmacy inventory.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the verified caller attached to a request by the auth middleware.
// It is a value type; handlers receive a copy and cannot alter the request's identity.
type Identity struct {
	Subject string
	Role    Role
}

// IsAdmin reports whether the identity carries the Admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

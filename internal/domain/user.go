package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleListener     UserRole = "listener"
	RoleOrganization UserRole = "organization"
	RoleAdmin        UserRole = "admin"
)

// ParseUserRole accepts only the closed set of known roles.
func ParseUserRole(s string) (UserRole, error) {
	switch r := UserRole(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleListener, RoleOrganization, RoleAdmin:
		return r, nil
	default:
		return "", NewError(ErrInvalidArgument, "role must be one of: listener, organization")
	}
}

// SignupAllowed reports whether the role may be chosen at registration.
// Admins are provisioned by the seed command only.
func (r UserRole) SignupAllowed() bool {
	return r == RoleListener || r == RoleOrganization
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsOrganization() bool { return u != nil && u.Role == RoleOrganization }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

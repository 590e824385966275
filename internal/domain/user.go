package domain

import (
	"net/mail"
	"time"
)

// Role is the marketplace role a user acts under.
type Role string

// List of user roles
const (
	RoleClient   Role = "client"
	RoleCourier  Role = "courier"
	RoleMerchant Role = "merchant"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// roles that can be picked at registration; admin accounts are seeded
var registrableRoles = [...]Role{
	RoleClient, RoleCourier, RoleMerchant, RoleProvider,
}

// Valid checks if the Role is known.
func (r Role) Valid() bool {
	return r == RoleAdmin || r.Registrable()
}

// Registrable reports whether a user may sign up with this role.
func (r Role) Registrable() bool {
	for _, v := range registrableRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User is a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Locale       string
	CreatedAt    time.Time
}

// ValidateEmail reports whether s is a bare e-mail address.
func ValidateEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

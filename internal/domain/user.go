package domain

import "time"

// Role is the capability level carried in the identity claim.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account tickets can be assigned to. Tickets reference users
// weakly: deleting a user detaches its tickets instead of removing them.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Package model defines domain entities for the application.
package model

// Role constants for user accounts.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize
	Role         string `json:"role"`
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:   u.ID,
		Name: u.Name,
		Role: u.Role,
	}
}

// UserSummary is the identity returned after successful authentication.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (s UserSummary) IsAdmin() bool {
	return s.Role == RoleAdmin
}

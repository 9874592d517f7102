package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role represents user role in the platform.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
	RoleOrganizer   Role = "organizer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleParticipant, RoleOrganizer:
		return true
	}
	return false
}

// DefaultBudget is the budget a participant starts with (effectively unlimited).
var DefaultBudget = decimal.RequireFromString("999999.00")

// User represents a platform user. Role-specific attributes live in profile
// tables and are read only where an endpoint needs them.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Is reports whether the user carries the given role tag.
func (u *User) Is(role Role) bool {
	return u != nil && u.Role == role
}

// OrganizerPublic is the part of an organizer profile anyone may read.
type OrganizerPublic struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Description string `json:"description"`
}

// ParticipantPublic is the part of a participant profile anyone may read.
// Contact details and budget are private.
type ParticipantPublic struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Surname    string   `json:"surname"`
	Categories []string `json:"categories"`
}

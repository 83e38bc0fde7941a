package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "docente"
	RoleStudent UserRole = "estudiante"
)

// AllRoles is the closed set of roles the service recognizes.
var AllRoles = []UserRole{RoleAdmin, RoleTeacher, RoleStudent}

// ParseRole normalizes a role string coming from the store or the auth
// provider into the closed role set. Unknown values map to the least
// privileged role.
func ParseRole(raw string) UserRole {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator":
		return RoleAdmin
	case "docente", "teacher", "instructor", "educator":
		return RoleTeacher
	case "estudiante", "student", "learner":
		return RoleStudent
	default:
		return RoleStudent
	}
}

// IsValid reports whether the role is one of the enumerated values
// without normalization.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

// Identity is the authenticated principal as known by the auth provider.
// It is never persisted by this service; application data lives in Profile.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile is the application-level record carrying the authorization role
// and display attributes for an Identity. Exactly one Profile exists per
// Identity, keyed by the shared identifier.
type Profile struct {
	ID        string   `json:"id" gorm:"primaryKey;size:255"`
	FirstName string   `json:"first_name" gorm:"size:100"`
	LastName  string   `json:"last_name" gorm:"size:100"`
	FullName  string   `json:"full_name" gorm:"size:200"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role      UserRole `json:"role" gorm:"not null;size:20;default:estudiante"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DisplayName prefers the full name and falls back to first/last.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Relation names for the course/student mapping. The legacy name is a
// compatibility shim: some deployments still carry their roster under it,
// so reads fall back to it when the primary relation is empty.
const (
	EnrollmentTablePrimary = "course_students"
	EnrollmentTableLegacy  = "curso_estudiantes"
)

// Enrollment maps a student to a course. Writes always target the primary
// relation; only reads consult the legacy one.
type Enrollment struct {
	CourseID  string    `json:"course_id" gorm:"primaryKey;size:36"`
	StudentID string    `json:"student_id" gorm:"primaryKey;size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (Enrollment) TableName() string {
	return EnrollmentTablePrimary
}

// RoleSyncOutbox records a role mutation whose identity-metadata step has
// not been applied at the auth provider yet. One row per pending retry.
type RoleSyncOutbox struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    string         `json:"user_id" gorm:"not null;size:255;index"`
	Role      UserRole       `json:"role" gorm:"not null;size:20"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
	SyncedAt  *time.Time     `json:"synced_at"`
}

func (RoleSyncOutbox) TableName() string {
	return "role_sync_outbox"
}

package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when a requested row does not
// exist.
var ErrNotFound = errors.New("record not found")

// Repository aggregates all repository interfaces.
type Repository interface {
	// Profile/roster domain
	Profile() ProfileRepository
	Enrollment() EnrollmentRepository

	// Course content domain
	Course() CourseRepository
	Session() SessionRepository
	Homework() HomeworkRepository
	Submission() SubmissionRepository

	// Role mutation outbox
	RoleOutbox() RoleOutboxRepository

	// Identity directory (external auth provider, read/admin)
	Identity() IdentityDirectory

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}

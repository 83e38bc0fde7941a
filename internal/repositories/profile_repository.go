package repositories

import (
	"context"

	"github.com/aulalink/lms-service/internal/models"
)

// ProfileRepository owns the profiles relation. It is also the
// ProfileSource consumed by the role resolver.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error)

	// Upsert creates the profile at registration or refreshes display
	// attributes; the id is the identity's identifier.
	Upsert(ctx context.Context, profile *models.Profile) error

	// UpdateRole is phase one of the two-step role mutation.
	UpdateRole(ctx context.Context, id string, role models.UserRole) error

	List(ctx context.Context, filters ProfileFilters) ([]*models.Profile, int64, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]*models.Profile, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// IdentityDirectory is the admin surface of the external auth provider.
// The service is not the owner of identity data; all of this delegates.
type IdentityDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)

	// Create registers a new identity and returns its assigned ID.
	Create(ctx context.Context, email, password, displayName string, role models.UserRole) (string, error)

	// UpdateRoleMetadata is phase two of the two-step role mutation:
	// it mirrors the profile role into the identity's auxiliary metadata.
	UpdateRoleMetadata(ctx context.Context, id string, role models.UserRole) error

	// SetPassword applies a password reset for the recovery flow.
	SetPassword(ctx context.Context, id, newPassword string) error
}

// RoleOutboxRepository records role mutations whose identity-metadata
// step is still pending, so it can be retried independently.
type RoleOutboxRepository interface {
	Enqueue(ctx context.Context, entry *models.RoleSyncOutbox) error
	Pending(ctx context.Context) ([]*models.RoleSyncOutbox, error)
	MarkSynced(ctx context.Context, id uint) error
}

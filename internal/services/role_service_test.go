package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/validator"
)

func newRoleService(repo *mockRepository, publisher events.EventPublisher) RoleService {
	return NewRoleService(repo, testLogger(), validator.New(), publisher)
}

func TestUpdateRoleTwoStepSuccess(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newRoleService(repo, publisher)

	repo.profile.profiles["u1"] = &models.Profile{ID: "u1", Role: models.RoleStudent}

	result, err := svc.UpdateRole(context.Background(), "u1", &RoleUpdateRequest{Role: "docente"}, Actor{ID: "admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.MetadataSynced {
		t.Error("expected metadata synced")
	}
	if repo.profile.profiles["u1"].Role != models.RoleTeacher {
		t.Errorf("profile role not updated: %s", repo.profile.profiles["u1"].Role)
	}
	if repo.identity.roleUpdates["u1"] != models.RoleTeacher {
		t.Errorf("identity metadata not updated: %v", repo.identity.roleUpdates)
	}
	if len(repo.roleOutbox.entries) != 0 {
		t.Errorf("expected empty outbox, got %d entries", len(repo.roleOutbox.entries))
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventRoleChanged {
		t.Errorf("expected role_changed event, got %+v", published)
	}
}

func TestUpdateRolePartialUpdateQueuesRetry(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newRoleService(repo, publisher)

	repo.profile.profiles["u1"] = &models.Profile{ID: "u1", Role: models.RoleStudent}
	repo.identity.metadataErr = errors.New("auth provider unavailable")

	result, err := svc.UpdateRole(context.Background(), "u1", &RoleUpdateRequest{Role: "admin"}, Actor{ID: "admin", Role: models.RoleAdmin})
	if !errors.Is(err, ErrPartialUpdate) {
		t.Fatalf("expected ErrPartialUpdate, got %v", err)
	}
	if result == nil || result.MetadataSynced {
		t.Fatalf("expected unsynced result, got %+v", result)
	}

	// Profile step must stand despite the metadata failure.
	if repo.profile.profiles["u1"].Role != models.RoleAdmin {
		t.Errorf("profile role rolled back unexpectedly: %s", repo.profile.profiles["u1"].Role)
	}

	pending, _ := repo.roleOutbox.Pending(context.Background())
	if len(pending) != 1 || pending[0].UserID != "u1" || pending[0].Role != models.RoleAdmin {
		t.Fatalf("expected pending sync entry for u1, got %+v", pending)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventRoleSyncPending {
		t.Errorf("expected role_sync_pending event, got %+v", published)
	}

	// Once the provider recovers, the retry drains the queue.
	repo.identity.metadataErr = nil
	synced, err := svc.RetryMetadataSync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced != 1 {
		t.Errorf("expected 1 synced entry, got %d", synced)
	}
	if repo.identity.roleUpdates["u1"] != models.RoleAdmin {
		t.Errorf("identity metadata not applied on retry: %v", repo.identity.roleUpdates)
	}

	pending, _ = repo.roleOutbox.Pending(context.Background())
	if len(pending) != 0 {
		t.Errorf("expected drained outbox, got %d entries", len(pending))
	}
}

func TestUpdateRoleAuthorization(t *testing.T) {
	repo := newMockRepository()
	svc := newRoleService(repo, events.NewMockEventPublisher(testLogger()))
	ctx := context.Background()

	repo.profile.profiles["u1"] = &models.Profile{ID: "u1", Role: models.RoleStudent}

	if _, err := svc.UpdateRole(ctx, "u1", &RoleUpdateRequest{Role: "docente"}, Actor{ID: "t1", Role: models.RoleTeacher}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for teacher actor, got %v", err)
	}

	if _, err := svc.UpdateRole(ctx, "admin", &RoleUpdateRequest{Role: "estudiante"}, Actor{ID: "admin", Role: models.RoleAdmin}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for self-demotion, got %v", err)
	}

	if _, err := svc.UpdateRole(ctx, "missing", &RoleUpdateRequest{Role: "docente"}, Actor{ID: "admin", Role: models.RoleAdmin}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}

	if _, err := svc.UpdateRole(ctx, "u1", &RoleUpdateRequest{Role: "superuser"}, Actor{ID: "admin", Role: models.RoleAdmin}); err == nil {
		t.Error("expected validation error for unknown role")
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/validator"
)

type roleService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewRoleService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) RoleService {
	return &roleService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// UpdateRole is the two-step mutation: the profile row is the source of
// truth and commits first; the identity metadata mirror follows. When
// the mirror fails the profile change stands, the sync is queued, and
// the caller gets ErrPartialUpdate.
func (s *roleService) UpdateRole(ctx context.Context, userID string, req *RoleUpdateRequest, actor Actor) (*RoleUpdateResult, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if actor.ID == userID {
		return nil, fmt.Errorf("%w: admins cannot change their own role", ErrForbidden)
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	role := models.ParseRole(req.Role)

	if _, err := s.repo.Profile().GetByID(ctx, userID); err != nil {
		return nil, mapRepoError(err)
	}

	// Step one: profile row.
	if err := s.repo.Profile().UpdateRole(ctx, userID, role); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "profile role updated",
		"user_id", userID,
		"role", role,
		"actor_id", actor.ID,
	)

	result := &RoleUpdateResult{UserID: userID, Role: role, MetadataSynced: true}

	// Step two: identity metadata mirror.
	if err := s.repo.Identity().UpdateRoleMetadata(ctx, userID, role); err != nil {
		s.logger.WarnContext(ctx, "identity metadata sync failed, queuing retry",
			"user_id", userID,
			"role", role,
			"error", err,
		)

		if qErr := s.enqueueSync(ctx, userID, role, err); qErr != nil {
			s.logger.ErrorContext(ctx, "failed to queue metadata sync",
				"user_id", userID,
				"error", qErr,
			)
		}

		s.publish(ctx, events.EventRoleSyncPending, map[string]string{
			"user_id": userID,
			"role":    string(role),
		})

		result.MetadataSynced = false
		return result, ErrPartialUpdate
	}

	s.publish(ctx, events.EventRoleChanged, map[string]string{
		"user_id": userID,
		"role":    string(role),
	})

	return result, nil
}

func (s *roleService) enqueueSync(ctx context.Context, userID string, role models.UserRole, cause error) error {
	payload, err := json.Marshal(map[string]string{
		"user_id": userID,
		"role":    string(role),
		"cause":   cause.Error(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	return s.repo.RoleOutbox().Enqueue(ctx, &models.RoleSyncOutbox{
		UserID:  userID,
		Role:    role,
		Payload: datatypes.JSON(payload),
	})
}

// RetryMetadataSync drains the pending queue, applying the newest role
// recorded for each user and marking entries synced as they succeed.
func (s *roleService) RetryMetadataSync(ctx context.Context) (int, error) {
	pending, err := s.repo.RoleOutbox().Pending(ctx)
	if err != nil {
		return 0, mapRepoError(err)
	}

	synced := 0
	for _, entry := range pending {
		if err := s.repo.Identity().UpdateRoleMetadata(ctx, entry.UserID, entry.Role); err != nil {
			s.logger.WarnContext(ctx, "metadata sync retry failed",
				"user_id", entry.UserID,
				"outbox_id", entry.ID,
				"error", err,
			)
			continue
		}

		if err := s.repo.RoleOutbox().MarkSynced(ctx, entry.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to mark sync done",
				"outbox_id", entry.ID,
				"error", err,
			)
			continue
		}

		s.publish(ctx, events.EventRoleChanged, map[string]string{
			"user_id": entry.UserID,
			"role":    string(entry.Role),
		})
		synced++
	}

	if synced > 0 {
		s.logger.InfoContext(ctx, "metadata sync retries applied", "synced", synced, "pending", len(pending)-synced)
	}

	return synced, nil
}

func (s *roleService) ListUsers(ctx context.Context, filters repositories.ProfileFilters, actor Actor) (*UserListResponse, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	users, total, err := s.repo.Profile().List(ctx, filters)
	if err != nil {
		return nil, mapRepoError(err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  page,
		Size:  len(users),
	}, nil
}

func (s *roleService) publish(ctx context.Context, eventType string, data interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", eventType, "error", err)
	}
}

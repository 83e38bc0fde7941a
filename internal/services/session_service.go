package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/storage"
	"github.com/aulalink/lms-service/internal/validator"
)

type sessionService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	store      storage.ObjectStore
	enrollment EnrollmentService
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, store storage.ObjectStore, enrollment EnrollmentService) SessionService {
	return &sessionService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		store:      store,
		enrollment: enrollment,
	}
}

func (s *sessionService) Create(ctx context.Context, courseID string, req *CreateSessionRequest, attachment *Upload, actor Actor) (*models.Session, error) {
	if _, err := getManagedCourse(ctx, s.repo, courseID, actor); err != nil {
		return nil, err
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	session := &models.Session{
		ID:          newID(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}

	if attachment != nil {
		stored, err := s.store.Upload(ctx, actor.ID, "materials", attachment.Filename, attachment.Data)
		if err != nil {
			return nil, err
		}
		session.AttachmentURL = &stored.URL
		name := attachment.Filename
		session.AttachmentName = &name
	}

	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "session created",
		"session_id", session.ID,
		"course_id", courseID,
		"actor_id", actor.ID,
	)
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionID string, actor Actor) error {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		return mapRepoError(err)
	}

	if _, err := getManagedCourse(ctx, s.repo, session.CourseID, actor); err != nil {
		return err
	}

	if err := s.repo.Session().Delete(ctx, sessionID); err != nil {
		return mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "session deleted", "session_id", sessionID, "actor_id", actor.ID)
	return nil
}

func (s *sessionService) ListByCourse(ctx context.Context, courseID string, actor Actor) ([]*models.Session, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	allowed, err := canViewCourse(ctx, s.repo, s.enrollment, course, actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	sessions, err := s.repo.Session().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sessions, nil
}

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/storage"
	"github.com/aulalink/lms-service/internal/validator"
)

type homeworkService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	store      storage.ObjectStore
	publisher  events.EventPublisher
	enrollment EnrollmentService
}

func NewHomeworkService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	store storage.ObjectStore,
	publisher events.EventPublisher,
	enrollment EnrollmentService,
) HomeworkService {
	return &homeworkService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		store:      store,
		publisher:  publisher,
		enrollment: enrollment,
	}
}

func (s *homeworkService) Create(ctx context.Context, courseID string, req *CreateHomeworkRequest, attachment *Upload, actor Actor) (*models.Homework, error) {
	if _, err := getManagedCourse(ctx, s.repo, courseID, actor); err != nil {
		return nil, err
	}

	if errs := s.validator.ValidateHomeworkCreate(req); len(errs) > 0 {
		return nil, errs
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	homework := &models.Homework{
		ID:           newID(),
		CourseID:     courseID,
		Title:        strings.TrimSpace(req.Title),
		Instructions: req.Instructions,
		StartDate:    datatypes.Date(startDate),
		EndDate:      datatypes.Date(endDate),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		DeliveryType: models.DeliveryType(req.DeliveryType),
	}

	if attachment != nil {
		stored, err := s.store.Upload(ctx, actor.ID, "homeworks", attachment.Filename, attachment.Data)
		if err != nil {
			return nil, err
		}
		homework.AttachmentURL = &stored.URL
		name := attachment.Filename
		homework.AttachmentName = &name
	}

	if err := s.repo.Homework().Create(ctx, homework); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "homework created",
		"homework_id", homework.ID,
		"course_id", courseID,
		"actor_id", actor.ID,
	)

	event := events.NewEvent(events.EventHomeworkCreated, map[string]string{
		"homework_id": homework.ID,
		"course_id":   courseID,
		"title":       homework.Title,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish homework event", "error", err)
	}

	return homework, nil
}

func (s *homeworkService) Delete(ctx context.Context, homeworkID string, actor Actor) error {
	homework, err := s.repo.Homework().GetByID(ctx, homeworkID)
	if err != nil {
		return mapRepoError(err)
	}

	if _, err := getManagedCourse(ctx, s.repo, homework.CourseID, actor); err != nil {
		return err
	}

	if err := s.repo.Homework().Delete(ctx, homeworkID); err != nil {
		return mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "homework deleted", "homework_id", homeworkID, "actor_id", actor.ID)
	return nil
}

func (s *homeworkService) ListByCourse(ctx context.Context, courseID string, actor Actor) ([]*HomeworkResponse, error) {
	homeworks, err := s.listAuthorized(ctx, courseID, actor, false)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, homeworks, actor)
}

func (s *homeworkService) ListUpcoming(ctx context.Context, courseID string, actor Actor) ([]*HomeworkResponse, error) {
	homeworks, err := s.listAuthorized(ctx, courseID, actor, true)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, homeworks, actor)
}

func (s *homeworkService) listAuthorized(ctx context.Context, courseID string, actor Actor, upcoming bool) ([]*models.Homework, error) {
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

	if upcoming {
		return s.repo.Homework().ListUpcomingByCourse(ctx, courseID)
	}
	return s.repo.Homework().ListByCourse(ctx, courseID)
}

// annotate marks, for students, which homeworks they already submitted.
func (s *homeworkService) annotate(ctx context.Context, homeworks []*models.Homework, actor Actor) ([]*HomeworkResponse, error) {
	out := make([]*HomeworkResponse, 0, len(homeworks))
	for _, hw := range homeworks {
		resp := &HomeworkResponse{Homework: hw}
		if actor.Role == models.RoleStudent {
			sub, err := s.repo.Submission().GetByHomeworkAndStudent(ctx, hw.ID, actor.ID)
			if err != nil {
				return nil, mapRepoError(err)
			}
			resp.Submitted = sub != nil
		}
		out = append(out, resp)
	}
	return out, nil
}

package services

import (
	"context"
	"log/slog"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/validator"
)

type notificationService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	publisher  events.EventPublisher
	enrollment EnrollmentService
}

func NewNotificationService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	enrollment EnrollmentService,
) NotificationService {
	return &notificationService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		publisher:  publisher,
		enrollment: enrollment,
	}
}

// NotifyCourseStudents publishes one notification event per enrolled
// student. Delivery (push, email digest) happens in downstream
// consumers of the event stream.
func (s *notificationService) NotifyCourseStudents(ctx context.Context, courseID string, req *NotificationRequest, actor Actor) error {
	course, err := getManagedCourse(ctx, s.repo, courseID, actor)
	if err != nil {
		return err
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	roster, err := s.enrollment.Roster(ctx, courseID, actor)
	if err != nil {
		return err
	}

	published := 0
	for _, student := range roster.Students {
		event := events.NewEvent(events.EventNotificationSent, map[string]string{
			"course_id":   course.ID,
			"course_name": course.Name,
			"student_id":  student.ID,
			"title":       req.Title,
			"message":     req.Message,
			"priority":    priority,
			"sender_id":   actor.ID,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish notification event",
				"course_id", courseID,
				"student_id", student.ID,
				"error", err,
			)
			continue
		}
		published++
	}

	s.logger.InfoContext(ctx, "course notification published",
		"course_id", courseID,
		"recipients", published,
		"roster_size", len(roster.Students),
		"actor_id", actor.ID,
	)
	return nil
}

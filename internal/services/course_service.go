package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, actor Actor) (*CourseResponse, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	if errs := s.validator.ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if req.TeacherID != nil {
		if err := s.checkTeacher(ctx, *req.TeacherID); err != nil {
			return nil, err
		}
	}

	course := &models.Course{
		ID:          newID(),
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "course created",
		"course_id", course.ID,
		"code", course.Code,
		"actor_id", actor.ID,
	)

	event := events.NewEvent(events.EventCourseCreated, map[string]string{
		"course_id": course.ID,
		"code":      course.Code,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish course event", "error", err)
	}

	return s.buildResponse(ctx, course, false)
}

func (s *courseService) GetByID(ctx context.Context, id string, actor Actor) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if actor.Role == models.RoleTeacher {
		if course.TeacherID == nil || *course.TeacherID != actor.ID {
			return nil, ErrForbidden
		}
	}

	return s.buildResponse(ctx, course, true)
}

func (s *courseService) Update(ctx context.Context, id string, req *UpdateCourseRequest, actor Actor) (*CourseResponse, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		course.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Description != nil {
		course.Description = req.Description
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "course updated", "course_id", id, "actor_id", actor.ID)
	return s.buildResponse(ctx, course, false)
}

// Delete removes the course and its roster in one transaction.
func (s *courseService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Enrollment().RemoveAllForCourse(ctx, id); err != nil {
			return err
		}
		return tx.Course().Delete(ctx, id)
	})
	if err != nil {
		return mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "course deleted", "course_id", id, "actor_id", actor.ID)
	return nil
}

// ===== LIST OPERATIONS =====

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, actor Actor) (*CourseListResponse, error) {
	// Teachers only ever see their own courses regardless of filters.
	if actor.Role == models.RoleTeacher {
		filters.TeacherID = &actor.ID
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, mapRepoError(err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp, err := s.buildResponse(ctx, course, false)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &CourseListResponse{
		Courses: responses,
		Total:   total,
		Page:    page,
		Size:    len(responses),
	}, nil
}

// ===== TEACHER ASSIGNMENT =====

func (s *courseService) AssignTeacher(ctx context.Context, courseID string, req *AssignTeacherRequest, actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		return mapRepoError(err)
	}

	if req.TeacherID != nil {
		if err := s.checkTeacher(ctx, *req.TeacherID); err != nil {
			return err
		}
	}

	if err := s.repo.Course().SetTeacher(ctx, courseID, req.TeacherID); err != nil {
		return mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "course teacher assigned",
		"course_id", courseID,
		"teacher_id", req.TeacherID,
		"actor_id", actor.ID,
	)
	return nil
}

// ===== HELPERS =====

func (s *courseService) checkTeacher(ctx context.Context, teacherID string) error {
	teacher, err := s.repo.Profile().GetByID(ctx, teacherID)
	if err != nil {
		return mapRepoError(err)
	}
	if teacher.Role != models.RoleTeacher {
		return fmt.Errorf("%w: assigned user is not a teacher", ErrForbidden)
	}
	return nil
}

func (s *courseService) buildResponse(ctx context.Context, course *models.Course, withStats bool) (*CourseResponse, error) {
	resp := &CourseResponse{Course: course}

	if course.TeacherID != nil {
		teacher, err := s.repo.Profile().GetByID(ctx, *course.TeacherID)
		if err == nil {
			resp.Teacher = teacher
		}
	}

	if withStats {
		stats, err := s.repo.Course().GetStats(ctx, course.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		resp.Stats = stats
	}

	return resp, nil
}

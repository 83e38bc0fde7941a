package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aulalink/lms-service/internal/events"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// ===== WRITE OPERATIONS =====

func (s *enrollmentService) Enroll(ctx context.Context, courseID string, req *EnrollRequest, actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		return mapRepoError(err)
	}

	student, err := s.repo.Profile().GetByID(ctx, req.StudentID)
	if err != nil {
		return mapRepoError(err)
	}
	if student.Role != models.RoleStudent {
		return fmt.Errorf("%w: only students can be enrolled", ErrForbidden)
	}

	if err := s.repo.Enrollment().Add(ctx, courseID, req.StudentID); err != nil {
		return mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "student enrolled",
		"course_id", courseID,
		"student_id", req.StudentID,
		"actor_id", actor.ID,
	)

	event := events.NewEvent(events.EventStudentEnrolled, map[string]string{
		"course_id":  courseID,
		"student_id": req.StudentID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish enrollment event", "error", err)
	}

	return nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, courseID, studentID string, actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	if err := s.repo.Enrollment().Remove(ctx, courseID, studentID); err != nil {
		return mapRepoError(err)
	}

	s.logger.InfoContext(ctx, "student unenrolled",
		"course_id", courseID,
		"student_id", studentID,
		"actor_id", actor.ID,
	)

	event := events.NewEvent(events.EventStudentUnenrolled, map[string]string{
		"course_id":  courseID,
		"student_id": studentID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish unenrollment event", "error", err)
	}

	return nil
}

// ===== READ OPERATIONS =====

// resolveByCourse reads the primary roster relation and falls back to
// the legacy one only when the primary read succeeds with zero rows. A
// primary error always propagates; a legacy error is degraded to the
// empty primary result, since the legacy relation is optional.
func (s *enrollmentService) resolveByCourse(ctx context.Context, courseID string) (*repositories.EnrollmentResult, error) {
	rows, err := s.repo.Enrollment().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if len(rows) > 0 {
		return &repositories.EnrollmentResult{Rows: rows, Source: repositories.SourcePrimary}, nil
	}

	legacyRows, err := s.repo.Enrollment().ListByCourseLegacy(ctx, courseID)
	if err != nil {
		s.logger.WarnContext(ctx, "legacy roster read failed, using empty primary result",
			"course_id", courseID,
			"error", err,
		)
		return &repositories.EnrollmentResult{Rows: rows, Source: repositories.SourcePrimary}, nil
	}
	if len(legacyRows) > 0 {
		s.logger.InfoContext(ctx, "roster served from legacy relation", "course_id", courseID)
		return &repositories.EnrollmentResult{Rows: legacyRows, Source: repositories.SourceLegacy}, nil
	}

	return &repositories.EnrollmentResult{Rows: rows, Source: repositories.SourcePrimary}, nil
}

// resolveByStudent applies the same fallback in the student direction.
func (s *enrollmentService) resolveByStudent(ctx context.Context, studentID string) (*repositories.EnrollmentResult, error) {
	rows, err := s.repo.Enrollment().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if len(rows) > 0 {
		return &repositories.EnrollmentResult{Rows: rows, Source: repositories.SourcePrimary}, nil
	}

	legacyRows, err := s.repo.Enrollment().ListByStudentLegacy(ctx, studentID)
	if err != nil {
		s.logger.WarnContext(ctx, "legacy enrollment read failed, using empty primary result",
			"student_id", studentID,
			"error", err,
		)
		return &repositories.EnrollmentResult{Rows: rows, Source: repositories.SourcePrimary}, nil
	}
	if len(legacyRows) > 0 {
		s.logger.InfoContext(ctx, "enrollments served from legacy relation", "student_id", studentID)
		return &repositories.EnrollmentResult{Rows: legacyRows, Source: repositories.SourceLegacy}, nil
	}

	return &repositories.EnrollmentResult{Rows: rows, Source: repositories.SourcePrimary}, nil
}

func (s *enrollmentService) Roster(ctx context.Context, courseID string, actor Actor) (*RosterResponse, error) {
	if _, err := getManagedCourse(ctx, s.repo, courseID, actor); err != nil {
		return nil, err
	}

	result, err := s.resolveByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		ids = append(ids, row.StudentID)
	}

	students, err := s.repo.Profile().GetByIDs(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err)
	}

	return &RosterResponse{
		Students: students,
		Source:   string(result.Source),
	}, nil
}

func (s *enrollmentService) StudentCourses(ctx context.Context, studentID string) (*StudentCoursesResponse, error) {
	result, err := s.resolveByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		ids = append(ids, row.CourseID)
	}

	courses, err := s.repo.Course().ListByIDs(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err)
	}

	return &StudentCoursesResponse{
		Courses: courses,
		Source:  string(result.Source),
	}, nil
}

// IsEnrolled consults both relations with the same fallback, so a
// student carried only by the legacy relation keeps access.
func (s *enrollmentService) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	result, err := s.resolveByCourse(ctx, courseID)
	if err != nil {
		return false, err
	}

	for _, row := range result.Rows {
		if row.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

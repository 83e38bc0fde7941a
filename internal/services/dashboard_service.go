package services

import (
	"context"
	"log/slog"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type dashboardService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	enrollment EnrollmentService
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, enrollment EnrollmentService) DashboardService {
	return &dashboardService{
		repo:       repo,
		logger:     logger,
		enrollment: enrollment,
	}
}

func (s *dashboardService) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	overview := &AdminOverview{}

	_, total, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{Limit: 1})
	if err != nil {
		return nil, mapRepoError(err)
	}
	overview.TotalUsers = total

	teacherRole := models.RoleTeacher
	_, total, err = s.repo.Profile().List(ctx, repositories.ProfileFilters{Role: &teacherRole, Limit: 1})
	if err != nil {
		return nil, mapRepoError(err)
	}
	overview.TotalTeachers = total

	studentRole := models.RoleStudent
	_, total, err = s.repo.Profile().List(ctx, repositories.ProfileFilters{Role: &studentRole, Limit: 1})
	if err != nil {
		return nil, mapRepoError(err)
	}
	overview.TotalStudents = total

	_, total, err = s.repo.Course().List(ctx, repositories.CourseFilters{Limit: 1})
	if err != nil {
		return nil, mapRepoError(err)
	}
	overview.TotalCourses = total

	return overview, nil
}

func (s *dashboardService) TeacherOverview(ctx context.Context, teacherID string) (*TeacherOverview, error) {
	courses, err := s.repo.Course().ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	summaries := make([]*TeacherCourseSummary, 0, len(courses))
	for _, course := range courses {
		stats, err := s.repo.Course().GetStats(ctx, course.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}

		pending, err := s.pendingSubmissions(ctx, course.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, &TeacherCourseSummary{
			Course:       course,
			StudentCount: stats.StudentCount,
			Homeworks:    stats.HomeworkCount,
			Pending:      pending,
		})
	}

	return &TeacherOverview{Courses: summaries}, nil
}

func (s *dashboardService) StudentOverview(ctx context.Context, studentID string) (*StudentOverview, error) {
	enrolled, err := s.enrollment.StudentCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}

	overview := &StudentOverview{
		Courses:          enrolled.Courses,
		UpcomingHomework: []*models.Homework{},
		RecentGrades:     []*models.Submission{},
	}

	for _, course := range enrolled.Courses {
		upcoming, err := s.repo.Homework().ListUpcomingByCourse(ctx, course.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		overview.UpcomingHomework = append(overview.UpcomingHomework, upcoming...)

		submissions, err := s.repo.Submission().ListByStudentAndCourse(ctx, studentID, course.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		for _, sub := range submissions {
			if sub.Score != nil {
				overview.RecentGrades = append(overview.RecentGrades, sub)
			}
		}
	}

	return overview, nil
}

// pendingSubmissions sums ungraded submissions across a course's
// homeworks.
func (s *dashboardService) pendingSubmissions(ctx context.Context, courseID string) (int, error) {
	homeworks, err := s.repo.Homework().ListByCourse(ctx, courseID)
	if err != nil {
		return 0, mapRepoError(err)
	}

	pending := 0
	for _, hw := range homeworks {
		stats, err := s.repo.Submission().GetGradingStats(ctx, hw.ID)
		if err != nil {
			return 0, mapRepoError(err)
		}
		pending += stats.PendingSubmissions
	}
	return pending, nil
}

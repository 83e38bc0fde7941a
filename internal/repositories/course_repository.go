package repositories

import (
	"context"

	"github.com/aulalink/lms-service/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Course, error)

	// SetTeacher assigns or clears (nil) the course's teacher.
	SetTeacher(ctx context.Context, courseID string, teacherID *string) error

	GetStats(ctx context.Context, courseID string) (*CourseStats, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]*models.Session, error)
}

type HomeworkRepository interface {
	Create(ctx context.Context, homework *models.Homework) error
	GetByID(ctx context.Context, id string) (*models.Homework, error)
	Delete(ctx context.Context, id string) error

	// ListByCourse orders by creation time; ListUpcomingByCourse orders
	// by start date for the student view.
	ListByCourse(ctx context.Context, courseID string) ([]*models.Homework, error)
	ListUpcomingByCourse(ctx context.Context, courseID string) ([]*models.Homework, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)

	ListByHomework(ctx context.Context, homeworkID string, filters SubmissionFilters) ([]*models.Submission, error)
	ListByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*models.Submission, error)

	// GetByHomeworkAndStudent returns nil without error when the student
	// has not submitted yet.
	GetByHomeworkAndStudent(ctx context.Context, homeworkID, studentID string) (*models.Submission, error)

	Grade(ctx context.Context, update GradeUpdate) error
	GetGradingStats(ctx context.Context, homeworkID string) (*GradingStats, error)
}

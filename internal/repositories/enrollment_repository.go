package repositories

import (
	"context"

	"github.com/aulalink/lms-service/internal/models"
)

// EnrollmentRepository owns the course/student mapping. Reads are exposed
// per relation so the fallback policy (primary first, legacy only on an
// empty, error-free result) lives in one place, the enrollment service.
// Writes always target the primary relation.
type EnrollmentRepository interface {
	Add(ctx context.Context, courseID, studentID string) error
	Remove(ctx context.Context, courseID, studentID string) error
	RemoveAllForCourse(ctx context.Context, courseID string) error

	ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error)
	ListByCourseLegacy(ctx context.Context, courseID string) ([]*models.Enrollment, error)

	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	ListByStudentLegacy(ctx context.Context, studentID string) ([]*models.Enrollment, error)
}

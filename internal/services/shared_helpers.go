package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

// mapRepoError translates repository sentinels into service sentinels.
func mapRepoError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func newID() string {
	return uuid.NewString()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// getManagedCourse loads a course the actor may manage: admins manage
// everything, teachers only courses assigned to them.
func getManagedCourse(ctx context.Context, repo repositories.Repository, courseID string, actor Actor) (*models.Course, error) {
	course, err := repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	switch actor.Role {
	case models.RoleAdmin:
		return course, nil
	case models.RoleTeacher:
		if course.TeacherID != nil && *course.TeacherID == actor.ID {
			return course, nil
		}
		return nil, ErrForbidden
	default:
		return nil, ErrForbidden
	}
}

// canViewCourse reports whether the actor may read course content:
// admins and the assigned teacher always, students when enrolled.
func canViewCourse(ctx context.Context, repo repositories.Repository, enrollment EnrollmentService, course *models.Course, actor Actor) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleTeacher:
		return course.TeacherID != nil && *course.TeacherID == actor.ID, nil
	case models.RoleStudent:
		return enrollment.IsEnrolled(ctx, course.ID, actor.ID)
	}
	return false, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aulalink/lms-service/internal/cache"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type enrollmentRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &enrollmentRepository{
		db:    db,
		cache: cache.NewCacheManager(redisClient),
	}
}

// ===== WRITE OPERATIONS (primary relation only) =====

func (r *enrollmentRepository) Add(ctx context.Context, courseID, studentID string) error {
	enrollment := &models.Enrollment{CourseID: courseID, StudentID: studentID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(enrollment).Error
	if err != nil {
		return handleDBError(err, "add enrollment")
	}

	r.cache.InvalidateRoster(ctx, courseID)
	return nil
}

func (r *enrollmentRepository) Remove(ctx context.Context, courseID, studentID string) error {
	result := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return handleDBError(result.Error, "remove enrollment")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "remove enrollment")
	}

	r.cache.InvalidateRoster(ctx, courseID)
	return nil
}

func (r *enrollmentRepository) RemoveAllForCourse(ctx context.Context, courseID string) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return handleDBError(err, "remove course enrollments")
	}

	r.cache.InvalidateRoster(ctx, courseID)
	return nil
}

// ===== READ OPERATIONS (per relation; fallback policy lives upstream) =====

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	cacheKey := fmt.Sprintf("course:%s:list", courseID)

	var cached []*models.Enrollment
	if err := r.cache.Roster.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	rows, err := r.listByCourse(ctx, models.EnrollmentTablePrimary, courseID)
	if err != nil {
		return nil, err
	}

	// Cache failures only cost the next read a database round trip.
	_ = r.cache.Roster.Set(ctx, cacheKey, rows, cache.RosterCacheConfig.TTL)
	return rows, nil
}

func (r *enrollmentRepository) ListByCourseLegacy(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	return r.listByCourse(ctx, models.EnrollmentTableLegacy, courseID)
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return r.listByStudent(ctx, models.EnrollmentTablePrimary, studentID)
}

func (r *enrollmentRepository) ListByStudentLegacy(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return r.listByStudent(ctx, models.EnrollmentTableLegacy, studentID)
}

func (r *enrollmentRepository) listByCourse(ctx context.Context, table, courseID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Table(table).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, handleDBError(err, "list enrollments by course")
	}
	return enrollments, nil
}

func (r *enrollmentRepository) listByStudent(ctx context.Context, table, studentID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Table(table).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, handleDBError(err, "list enrollments by student")
	}
	return enrollments, nil
}

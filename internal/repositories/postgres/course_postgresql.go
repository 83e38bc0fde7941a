package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"name":        course.Name,
			"code":        course.Code,
			"description": course.Description,
		})
	if result.Error != nil {
		return handleDBError(result.Error, "update course")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update course")
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete course")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete course")
	}
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (r *courseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Query != nil && *filters.Query != "" {
		pattern := "%" + *filters.Query + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, handleDBError(err, "list courses by teacher")
	}
	return courses, nil
}

func (r *courseRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}

	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, handleDBError(err, "list courses by ids")
	}
	return courses, nil
}

func (r *courseRepository) SetTeacher(ctx context.Context, courseID string, teacherID *string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", courseID).
		Update("teacher_id", teacherID)
	if result.Error != nil {
		return handleDBError(result.Error, "set course teacher")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "set course teacher")
	}
	return nil
}

// ===== STATISTICS OPERATIONS =====

func (r *courseRepository) GetStats(ctx context.Context, courseID string) (*repositories.CourseStats, error) {
	stats := &repositories.CourseStats{}

	counts := []struct {
		dest  *int
		query *gorm.DB
		op    string
	}{
		{&stats.SessionCount, r.db.WithContext(ctx).Model(&models.Session{}).Where("course_id = ?", courseID), "count course sessions"},
		{&stats.HomeworkCount, r.db.WithContext(ctx).Model(&models.Homework{}).Where("course_id = ?", courseID), "count course homeworks"},
		{&stats.StudentCount, r.db.WithContext(ctx).Table(models.EnrollmentTablePrimary).Where("course_id = ?", courseID), "count course students"},
		{&stats.SubmissionCount, r.db.WithContext(ctx).Model(&models.Submission{}).
			Joins("JOIN homeworks ON homeworks.id = submissions.homework_id").
			Where("homeworks.course_id = ?", courseID), "count course submissions"},
	}

	for _, c := range counts {
		var n int64
		if err := c.query.Count(&n).Error; err != nil {
			return nil, handleDBError(err, c.op)
		}
		*c.dest = int(n)
	}

	return stats, nil
}

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type homeworkRepository struct {
	db *gorm.DB
}

func NewHomeworkPostgreSQL(db *gorm.DB) repositories.HomeworkRepository {
	return &homeworkRepository{db: db}
}

func (r *homeworkRepository) Create(ctx context.Context, homework *models.Homework) error {
	if err := r.db.WithContext(ctx).Create(homework).Error; err != nil {
		return handleDBError(err, "create homework")
	}
	return nil
}

func (r *homeworkRepository) GetByID(ctx context.Context, id string) (*models.Homework, error) {
	var homework models.Homework
	if err := r.db.WithContext(ctx).First(&homework, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get homework by id")
	}
	return &homework, nil
}

func (r *homeworkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Homework{}, "id = ?", id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete homework")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete homework")
	}
	return nil
}

func (r *homeworkRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Homework, error) {
	var homeworks []*models.Homework
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&homeworks).Error
	if err != nil {
		return nil, handleDBError(err, "list homeworks by course")
	}
	return homeworks, nil
}

func (r *homeworkRepository) ListUpcomingByCourse(ctx context.Context, courseID string) ([]*models.Homework, error) {
	var homeworks []*models.Homework
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("start_date ASC, end_date ASC").
		Find(&homeworks).Error
	if err != nil {
		return nil, handleDBError(err, "list upcoming homeworks by course")
	}
	return homeworks, nil
}

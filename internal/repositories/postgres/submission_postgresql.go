package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &submissionRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return handleDBError(err, "create submission")
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get submission by id")
	}
	return &submission, nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (r *submissionRepository) ListByHomework(ctx context.Context, homeworkID string, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	query := r.db.WithContext(ctx).Where("homework_id = ?", homeworkID)

	if filters.IsGraded != nil {
		if *filters.IsGraded {
			query = query.Where("score IS NOT NULL")
		} else {
			query = query.Where("score IS NULL")
		}
	}
	if filters.GradedBy != nil {
		query = query.Where("graded_by = ?", *filters.GradedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var submissions []*models.Submission
	if err := query.Order("submitted_at ASC").Find(&submissions).Error; err != nil {
		return nil, handleDBError(err, "list submissions by homework")
	}
	return submissions, nil
}

func (r *submissionRepository) ListByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.WithContext(ctx).
		Joins("JOIN homeworks ON homeworks.id = submissions.homework_id").
		Where("submissions.student_id = ? AND homeworks.course_id = ?", studentID, courseID).
		Order("submissions.submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, handleDBError(err, "list submissions by student and course")
	}
	return submissions, nil
}

func (r *submissionRepository) GetByHomeworkAndStudent(ctx context.Context, homeworkID, studentID string) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		First(&submission, "homework_id = ? AND student_id = ?", homeworkID, studentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, handleDBError(err, "get submission by homework and student")
	}
	return &submission, nil
}

// ===== GRADING OPERATIONS =====

func (r *submissionRepository) Grade(ctx context.Context, update repositories.GradeUpdate) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", update.SubmissionID).
		Updates(map[string]interface{}{
			"score":     update.Score,
			"feedback":  update.Feedback,
			"graded_by": update.GraderID,
			"graded_at": now,
		})
	if result.Error != nil {
		return handleDBError(result.Error, "grade submission")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "grade submission")
	}
	return nil
}

func (r *submissionRepository) GetGradingStats(ctx context.Context, homeworkID string) (*repositories.GradingStats, error) {
	stats := &repositories.GradingStats{}

	var total, graded int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("homework_id = ?", homeworkID).
		Count(&total).Error
	if err != nil {
		return nil, handleDBError(err, "count submissions")
	}

	err = r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("homework_id = ? AND score IS NOT NULL", homeworkID).
		Count(&graded).Error
	if err != nil {
		return nil, handleDBError(err, "count graded submissions")
	}

	stats.TotalSubmissions = int(total)
	stats.GradedSubmissions = int(graded)
	stats.PendingSubmissions = int(total - graded)

	if graded > 0 {
		var avg *float64
		err = r.db.WithContext(ctx).
			Model(&models.Submission{}).
			Where("homework_id = ? AND score IS NOT NULL", homeworkID).
			Select("AVG(score)").
			Scan(&avg).Error
		if err != nil {
			return nil, handleDBError(err, "average submission score")
		}
		if avg != nil {
			stats.AverageScore = *avg
		}
	}

	return stats, nil
}

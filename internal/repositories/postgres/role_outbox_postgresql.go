package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type roleOutboxRepository struct {
	db *gorm.DB
}

func NewRoleOutboxPostgreSQL(db *gorm.DB) repositories.RoleOutboxRepository {
	return &roleOutboxRepository{db: db}
}

func (r *roleOutboxRepository) Enqueue(ctx context.Context, entry *models.RoleSyncOutbox) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return handleDBError(err, "enqueue role sync")
	}
	return nil
}

func (r *roleOutboxRepository) Pending(ctx context.Context) ([]*models.RoleSyncOutbox, error) {
	var entries []*models.RoleSyncOutbox
	err := r.db.WithContext(ctx).
		Where("synced_at IS NULL").
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, handleDBError(err, "list pending role syncs")
	}
	return entries, nil
}

func (r *roleOutboxRepository) MarkSynced(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.RoleSyncOutbox{}).
		Where("id = ? AND synced_at IS NULL", id).
		Update("synced_at", now)
	if result.Error != nil {
		return handleDBError(result.Error, "mark role sync done")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "mark role sync done")
	}
	return nil
}

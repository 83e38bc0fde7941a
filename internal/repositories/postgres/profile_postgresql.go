package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aulalink/lms-service/internal/cache"
	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
)

type profileRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &profileRepository{
		db:    db,
		cache: cache.NewCacheManager(redisClient),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var cached models.Profile
	if ok, _ := r.cache.GetProfile(ctx, id, &cached); ok {
		return &cached, nil
	}

	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get profile by id")
	}

	r.cache.SetProfile(ctx, &profile)
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		return nil, handleDBError(err, "get profile by email")
	}
	return &profile, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return []*models.Profile{}, nil
	}

	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, handleDBError(err, "get profiles by ids")
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "full_name", "email", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return handleDBError(err, "upsert profile")
	}

	r.cache.InvalidateProfile(ctx, profile.ID)
	return nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return handleDBError(result.Error, "update profile role")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update profile role")
	}

	r.cache.InvalidateProfile(ctx, id)
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (r *profileRepository) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where(
			"full_name ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count profiles")
	}

	query = applyPaginationAndSort(query, "created_at", "asc", filters.Limit, filters.Offset)

	var profiles []*models.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, handleDBError(err, "list profiles")
	}

	return profiles, total, nil
}

func (r *profileRepository) ListByRole(ctx context.Context, role models.UserRole) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, handleDBError(err, "list profiles by role")
	}
	return profiles, nil
}

// ===== VALIDATION AND CHECKS =====

func (r *profileRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check profile existence")
	}
	return count > 0, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check profile existence by email")
	}
	return count > 0, nil
}

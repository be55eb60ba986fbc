package repository

import (
	"context"
	"errors"

	"communityapi/internal/cache"
	"communityapi/internal/models"
	"communityapi/internal/observability"

	"gorm.io/gorm"
)

// CommunityRepository defines persistence operations for communities.
type CommunityRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	Create(ctx context.Context, community *models.Community) error
	List(ctx context.Context) ([]models.Community, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository returns a new CommunityRepository implementation.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &community, nil
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	defer observability.TrackQuery("create", "communities")()
	if err := r.db.WithContext(ctx).Create(community).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Community title already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunityList(ctx)
	return nil
}

func (r *communityRepository) List(ctx context.Context) ([]models.Community, error) {
	var communities []models.Community
	err := cache.Aside(ctx, cache.CommunityListKey, &communities, cache.CommunityListTTL, func() error {
		defer observability.TrackQuery("read", "communities")()
		if err := r.db.WithContext(ctx).Order("title ASC").Find(&communities).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return communities, nil
}

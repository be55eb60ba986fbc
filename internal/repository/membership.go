package repository

import (
	"context"

	"communityapi/internal/models"
	"communityapi/internal/observability"

	"gorm.io/gorm"
)

// MembershipRepository defines persistence operations for community
// memberships. Create and Delete surface Conflict and NotFound so handlers
// can report double joins and leaves of non-joined communities precisely.
type MembershipRepository interface {
	Create(ctx context.Context, customerID, communityID uint) error
	Delete(ctx context.Context, customerID, communityID uint) error
	Exists(ctx context.Context, customerID, communityID uint) (bool, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Membership, error)
	DeleteByCustomer(ctx context.Context, customerID uint) error
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository returns a new MembershipRepository implementation.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, customerID, communityID uint) error {
	defer observability.TrackQuery("create", "memberships")()
	m := models.Membership{CustomerID: customerID, CommunityID: communityID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already a member of this community")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *membershipRepository) Delete(ctx context.Context, customerID, communityID uint) error {
	defer observability.TrackQuery("delete", "memberships")()
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND community_id = ?", customerID, communityID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Membership", communityID)
	}
	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, customerID, communityID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("customer_id = ? AND community_id = ?", customerID, communityID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *membershipRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).
		Preload("Community").
		Where("customer_id = ?", customerID).
		Order("joined_at DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *membershipRepository) DeleteByCustomer(ctx context.Context, customerID uint) error {
	defer observability.TrackQuery("delete", "memberships")()
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.Membership{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Package service implements business logic on top of the repositories.
package service

import (
	"context"
	"strings"

	"communityapi/internal/models"
	"communityapi/internal/repository"
)

// CommunityService handles community catalog and membership logic.
type CommunityService struct {
	communities repository.CommunityRepository
	memberships repository.MembershipRepository
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(communities repository.CommunityRepository, memberships repository.MembershipRepository) *CommunityService {
	return &CommunityService{communities: communities, memberships: memberships}
}

// Create adds a new community. Titles are unique across the catalog.
func (s *CommunityService) Create(ctx context.Context, title, image, description string) (*models.Community, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > 120 {
		return nil, models.NewValidationError("Title must not exceed 120 characters")
	}
	if image == "" {
		return nil, models.NewValidationError("Image is required")
	}

	community := &models.Community{
		Title:       title,
		Image:       image,
		Description: description,
	}
	if err := s.communities.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

// List returns the full community catalog.
func (s *CommunityService) List(ctx context.Context) ([]models.Community, error) {
	return s.communities.List(ctx)
}

// Get returns a single community by ID.
func (s *CommunityService) Get(ctx context.Context, id uint) (*models.Community, error) {
	return s.communities.GetByID(ctx, id)
}

// Join makes the customer a member of the community. Joining a community the
// customer already belongs to is a conflict, not a silent success, so clients
// can detect desynced state.
func (s *CommunityService) Join(ctx context.Context, customerID, communityID uint) error {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return err
	}
	return s.memberships.Create(ctx, customerID, communityID)
}

// Leave removes the customer's membership. Leaving a community the customer
// never joined reports not found.
func (s *CommunityService) Leave(ctx context.Context, customerID, communityID uint) error {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return err
	}
	return s.memberships.Delete(ctx, customerID, communityID)
}

// ListMine returns the communities the customer has joined, newest join first.
func (s *CommunityService) ListMine(ctx context.Context, customerID uint) ([]models.Community, error) {
	memberships, err := s.memberships.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	communities := make([]models.Community, 0, len(memberships))
	for _, m := range memberships {
		if m.Community != nil {
			communities = append(communities, *m.Community)
		}
	}
	return communities, nil
}

// IsMember reports whether the customer belongs to the community.
func (s *CommunityService) IsMember(ctx context.Context, customerID, communityID uint) (bool, error) {
	return s.memberships.Exists(ctx, customerID, communityID)
}

package service

import (
	"context"

	"communityapi/internal/middleware"
	"communityapi/internal/models"
	"communityapi/internal/observability"
	"communityapi/internal/repository"
	"communityapi/internal/storage"
	"communityapi/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// CustomerService handles account profile updates and account deletion.
type CustomerService struct {
	customers   repository.CustomerRepository
	posts       repository.PostRepository
	reactions   repository.ReactionRepository
	memberships repository.MembershipRepository
	media       storage.MediaStore
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(
	customers repository.CustomerRepository,
	posts repository.PostRepository,
	reactions repository.ReactionRepository,
	memberships repository.MembershipRepository,
	media storage.MediaStore,
) *CustomerService {
	return &CustomerService{
		customers:   customers,
		posts:       posts,
		reactions:   reactions,
		memberships: memberships,
		media:       media,
	}
}

// Get returns a customer by ID.
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// List returns customers for admin views.
func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	return s.customers.List(ctx, limit, offset)
}

// UpdateInput carries optional profile fields; nil means leave unchanged.
type UpdateInput struct {
	Name  *string
	Email *string
	Role  *models.CustomerRole
}

// Update applies profile changes and re-resolves the display name whenever
// the inputs it derives from change.
func (s *CustomerService) Update(ctx context.Context, id uint, in UpdateInput) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		customer.Name = *in.Name
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		customer.Email = *in.Email
	}
	if in.Role != nil {
		if *in.Role != models.CustomerRoleUser && *in.Role != models.CustomerRoleAdmin {
			return nil, models.NewValidationError("Invalid role")
		}
		customer.Role = *in.Role
	}

	customer.DisplayName = models.ResolveDisplayName(customer.Name, customer.Email)

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateProfilePicture swaps the stored picture path, deleting the previous
// file best effort.
func (s *CustomerService) UpdateProfilePicture(ctx context.Context, id uint, publicPath string) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := customer.ProfilePicture
	customer.ProfilePicture = publicPath
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	if old != "" && old != publicPath {
		s.deleteMedia(ctx, old)
	}
	return customer, nil
}

// Delete removes a customer and everything attributed to them:
//
//  1. withdraw the customer's reactions, decrementing the affected counters
//  2. delete media files attached to the customer's posts
//  3. delete the customer's posts together with reactions others left on them
//  4. delete the customer's community memberships
//  5. delete the profile picture file
//  6. delete the customer record itself
//
// File removals are best effort and only logged; store failures abort the
// cascade so a partial deletion is never reported as success.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	ctx, span := observability.StartSpan(ctx, "customer.delete",
		attribute.Int64("customer_id", int64(id)),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var customer *models.Customer
	customer, err = s.customers.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var withdrawn int
	withdrawn, err = s.reactions.WithdrawAllByCustomer(ctx, id)
	if err != nil {
		observability.CascadeDeletions.WithLabelValues("failure").Inc()
		return err
	}

	var posts []models.Post
	posts, err = s.posts.ListByCustomer(ctx, id)
	if err != nil {
		observability.CascadeDeletions.WithLabelValues("failure").Inc()
		return err
	}
	for _, post := range posts {
		s.deleteMedia(ctx, post.MediaURL)
	}

	if err = s.posts.DeleteByCustomer(ctx, id); err != nil {
		observability.CascadeDeletions.WithLabelValues("failure").Inc()
		return err
	}

	if err = s.memberships.DeleteByCustomer(ctx, id); err != nil {
		observability.CascadeDeletions.WithLabelValues("failure").Inc()
		return err
	}

	s.deleteMedia(ctx, customer.ProfilePicture)

	if err = s.customers.Delete(ctx, id); err != nil {
		observability.CascadeDeletions.WithLabelValues("failure").Inc()
		return err
	}

	observability.CascadeDeletions.WithLabelValues("success").Inc()
	middleware.Logger.InfoContext(ctx, "customer deleted",
		"customer_id", id,
		"posts_deleted", len(posts),
		"reactions_withdrawn", withdrawn,
	)
	return nil
}

func (s *CustomerService) deleteMedia(ctx context.Context, mediaURL string) {
	if mediaURL == "" || s.media == nil {
		return
	}
	if err := s.media.Delete(mediaURL); err != nil {
		observability.MediaDeleteFailures.Inc()
		middleware.Logger.WarnContext(ctx, "media delete failed",
			"path", mediaURL,
			"error", err.Error(),
		)
	}
}

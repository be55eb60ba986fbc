package service

import (
	"context"
	"strings"

	"communityapi/internal/cache"
	"communityapi/internal/middleware"
	"communityapi/internal/models"
	"communityapi/internal/observability"
	"communityapi/internal/reaction"
	"communityapi/internal/repository"
	"communityapi/internal/storage"

	"go.opentelemetry.io/otel/attribute"
)

const maxPostLength = 1000

// PostService handles post creation, listing, and reactions. Listing and
// reacting are member-only: customers interact with a community's posts only
// while they belong to it.
type PostService struct {
	posts       repository.PostRepository
	reactions   repository.ReactionRepository
	memberships repository.MembershipRepository
	communities repository.CommunityRepository
	media       storage.MediaStore
}

// NewPostService creates a new PostService.
func NewPostService(
	posts repository.PostRepository,
	reactions repository.ReactionRepository,
	memberships repository.MembershipRepository,
	communities repository.CommunityRepository,
	media storage.MediaStore,
) *PostService {
	return &PostService{
		posts:       posts,
		reactions:   reactions,
		memberships: memberships,
		communities: communities,
		media:       media,
	}
}

func (s *PostService) requireMembership(ctx context.Context, customerID, communityID uint) error {
	member, err := s.memberships.Exists(ctx, customerID, communityID)
	if err != nil {
		return err
	}
	if !member {
		return models.NewForbiddenError("Join the community to interact with its posts")
	}
	return nil
}

// Create publishes a post into a community the customer belongs to.
func (s *PostService) Create(ctx context.Context, customerID, communityID uint, text, mediaURL string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostLength {
		return nil, models.NewValidationError("Text is too long")
	}

	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, customerID, communityID); err != nil {
		return nil, err
	}

	post := &models.Post{
		CustomerID:   customerID,
		CommunityID:  communityID,
		Text:         text,
		MediaURL:     mediaURL,
		UserReaction: reaction.TypeNone,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListCommunityPosts returns a community's posts newest first, each annotated
// with the requesting customer's own reaction.
func (s *PostService) ListCommunityPosts(ctx context.Context, customerID, communityID uint, limit, offset int) ([]models.Post, error) {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, customerID, communityID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByCommunity(ctx, communityID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.posts.AttachReactions(ctx, posts, customerID); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns a single post annotated with the customer's reaction.
func (s *PostService) Get(ctx context.Context, customerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	current, err := s.reactions.Get(ctx, customerID, postID)
	if err != nil {
		return nil, err
	}
	post.UserReaction = current
	return post, nil
}

// Update rewrites a post's text. Only the author may edit.
func (s *PostService) Update(ctx context.Context, customerID, postID uint, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostLength {
		return nil, models.NewValidationError("Text is too long")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CustomerID != customerID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	post.Text = text
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and its reactions. The author or an admin may delete.
// Media cleanup is best effort: a missing or undeletable file never blocks
// the removal of the post record.
func (s *PostService) Delete(ctx context.Context, customerID uint, isAdmin bool, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.CustomerID != customerID && !isAdmin {
		return models.NewForbiddenError("Only the author or an admin can delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.deleteMedia(ctx, post.MediaURL)
	return nil
}

// React sets the customer's reaction on a post. Same-state requests are
// no-ops; switching moves both counters in one atomic transition.
func (s *PostService) React(ctx context.Context, customerID, postID uint, desired reaction.Type) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "post.react",
		attribute.Int64("post_id", int64(postID)),
		attribute.String("reaction", string(desired)),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var post *models.Post
	post, err = s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err = s.requireMembership(ctx, customerID, post.CommunityID); err != nil {
		return nil, err
	}

	var applied reaction.Transition
	applied, err = s.reactions.Set(ctx, customerID, postID, desired)
	if err != nil {
		return nil, err
	}

	if applied.Changed() {
		cache.InvalidateCommunityPosts(ctx, post.CommunityID)
	}

	// Re-read so the response carries the post-transition counters and the
	// reaction actually on record. A concurrent request may have won the
	// record, in which case echoing the request would misreport the state.
	post, err = s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	var current reaction.Type
	current, err = s.reactions.Get(ctx, customerID, postID)
	if err != nil {
		return nil, err
	}
	post.UserReaction = current
	return post, nil
}

// deleteMedia removes a stored media file, logging failures instead of
// propagating them.
func (s *PostService) deleteMedia(ctx context.Context, mediaURL string) {
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

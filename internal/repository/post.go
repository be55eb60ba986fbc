package repository

import (
	"context"
	"errors"

	"communityapi/internal/cache"
	"communityapi/internal/models"
	"communityapi/internal/observability"
	"communityapi/internal/reaction"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.Post, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	DeleteByCustomer(ctx context.Context, customerID uint) error
	AttachReactions(ctx context.Context, posts []models.Post, customerID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunityPosts(ctx, post.CommunityID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListByCommunity returns a community's posts newest first. The first page is
// served through the cache; the caller attaches per-customer reactions
// afterwards so cached entries stay customer-agnostic.
func (r *postRepository) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	query := func() error {
		defer observability.TrackQuery("read", "posts")()
		return r.db.WithContext(ctx).
			Preload("Customer").
			Where("community_id = ?", communityID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	var err error
	if offset == 0 && limit <= 20 {
		err = cache.Aside(ctx, cache.CommunityPostsKey(communityID), &posts, cache.PostsListTTL, query)
	} else {
		err = query()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunityPosts(ctx, post.CommunityID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostReaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunityPosts(ctx, post.CommunityID)
	return nil
}

func (r *postRepository) DeleteByCustomer(ctx context.Context, customerID uint) error {
	defer observability.TrackQuery("delete", "posts")()
	posts, err := r.ListByCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, post := range posts {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostReaction{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("customer_id = ?", customerID).Delete(&models.Post{}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, post := range posts {
		cache.InvalidateCommunityPosts(ctx, post.CommunityID)
	}
	return nil
}

// AttachReactions fills UserReaction on each post with the given customer's
// recorded reaction, defaulting to none.
func (r *postRepository) AttachReactions(ctx context.Context, posts []models.Post, customerID uint) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		posts[i].UserReaction = reaction.TypeNone
	}

	var reactions []models.PostReaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND post_id IN ?", customerID, ids).
		Find(&reactions).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	byPost := make(map[uint]reaction.Type, len(reactions))
	for _, rec := range reactions {
		byPost[rec.PostID] = rec.Type
	}
	for i := range posts {
		if t, ok := byPost[posts[i].ID]; ok {
			posts[i].UserReaction = t
		}
	}
	return nil
}

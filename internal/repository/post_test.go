package repository

import (
	"context"
	"testing"
	"time"

	"communityapi/internal/models"
	"communityapi/internal/reaction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostListByCommunity_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db)
	community := createTestCommunity(t, db)
	other := createTestCommunity(t, db)

	old := createTestPost(t, db, customer.ID, community.ID)
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-time.Hour)).Error)
	recent := createTestPost(t, db, customer.ID, community.ID)
	createTestPost(t, db, customer.ID, other.ID)

	posts, err := repo.ListByCommunity(ctx, community.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, recent.ID, posts[0].ID)
	assert.Equal(t, old.ID, posts[1].ID)
}

func TestPostDelete_RemovesReactions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db)
	community := createTestCommunity(t, db)
	post := createTestPost(t, db, customer.ID, community.ID)

	_, err := reactions.Set(ctx, customer.ID, post.ID, reaction.TypeLike)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err = repo.GetByID(ctx, post.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.PostReaction{}).
		Where("post_id = ?", post.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostDeleteByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	community := createTestCommunity(t, db)
	leaver := createTestCustomer(t, db)
	other := createTestCustomer(t, db)

	p1 := createTestPost(t, db, leaver.ID, community.ID)
	createTestPost(t, db, leaver.ID, community.ID)
	kept := createTestPost(t, db, other.ID, community.ID)

	// A reaction from another customer on the leaver's post must go with it.
	_, err := reactions.Set(ctx, other.ID, p1.ID, reaction.TypeLike)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByCustomer(ctx, leaver.ID))

	remaining, err := repo.ListByCommunity(ctx, community.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.PostReaction{}).
		Where("post_id = ?", p1.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestAttachReactions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	community := createTestCommunity(t, db)
	author := createTestCustomer(t, db)
	viewer := createTestCustomer(t, db)

	liked := createTestPost(t, db, author.ID, community.ID)
	disliked := createTestPost(t, db, author.ID, community.ID)
	createTestPost(t, db, author.ID, community.ID)

	_, err := reactions.Set(ctx, viewer.ID, liked.ID, reaction.TypeLike)
	require.NoError(t, err)
	_, err = reactions.Set(ctx, viewer.ID, disliked.ID, reaction.TypeDislike)
	require.NoError(t, err)

	posts, err := repo.ListByCommunity(ctx, community.ID, 50, 0)
	require.NoError(t, err)
	require.NoError(t, repo.AttachReactions(ctx, posts, viewer.ID))

	byID := make(map[uint]reaction.Type)
	for _, p := range posts {
		byID[p.ID] = p.UserReaction
	}
	assert.Equal(t, reaction.TypeLike, byID[liked.ID])
	assert.Equal(t, reaction.TypeDislike, byID[disliked.ID])
	for id, r := range byID {
		if id != liked.ID && id != disliked.ID {
			assert.Equal(t, reaction.TypeNone, r)
		}
	}
}

package service

import (
	"context"

	"communityapi/internal/middleware"
	"communityapi/internal/reaction"
	"communityapi/internal/repository"
)

// ReconcileService rebuilds denormalized post counters from the reaction
// records, the source of truth. Run periodically to repair drift left behind
// by crashes between a record write and its counter update.
type ReconcileService struct {
	posts     repository.PostRepository
	reactions repository.ReactionRepository
}

// NewReconcileService creates a new ReconcileService.
func NewReconcileService(posts repository.PostRepository, reactions repository.ReactionRepository) *ReconcileService {
	return &ReconcileService{posts: posts, reactions: reactions}
}

// ReconcileAll sweeps every post and rewrites counters that disagree with the
// reaction records. Returns the number of posts repaired.
func (s *ReconcileService) ReconcileAll(ctx context.Context) (int, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, post := range posts {
		fixed, err := s.reconcilePost(ctx, post.ID, post.LikeCount, post.DislikeCount)
		if err != nil {
			return repaired, err
		}
		if fixed {
			repaired++
		}
	}

	middleware.Logger.InfoContext(ctx, "counter reconciliation finished",
		"posts_scanned", len(posts),
		"posts_repaired", repaired,
	)
	return repaired, nil
}

func (s *ReconcileService) reconcilePost(ctx context.Context, postID uint, likeCount, dislikeCount int) (bool, error) {
	records, err := s.reactions.ListByPost(ctx, postID)
	if err != nil {
		return false, err
	}

	ledger := reaction.NewLedger()
	for _, rec := range records {
		ledger.Apply(rec.CustomerID, rec.Type)
	}

	likes, dislikes := ledger.Counts()
	if likes == likeCount && dislikes == dislikeCount {
		return false, nil
	}

	middleware.Logger.WarnContext(ctx, "counter drift detected",
		"post_id", postID,
		"stored_likes", likeCount,
		"actual_likes", likes,
		"stored_dislikes", dislikeCount,
		"actual_dislikes", dislikes,
	)
	if err := s.reactions.ResetCounters(ctx, postID, likes, dislikes); err != nil {
		return false, err
	}
	return true, nil
}

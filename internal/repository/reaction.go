package repository

import (
	"context"
	"errors"

	"communityapi/internal/models"
	"communityapi/internal/observability"
	"communityapi/internal/reaction"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines persistence operations for post reactions.
//
// Set is the only write path for individual reactions. It runs the whole
// read-resolve-apply cycle in one transaction with the existing reaction row
// locked, so two concurrent requests for the same (customer, post) pair
// serialize instead of both applying counter deltas computed from the same
// stale state.
type ReactionRepository interface {
	Set(ctx context.Context, customerID, postID uint, desired reaction.Type) (reaction.Transition, error)
	Get(ctx context.Context, customerID, postID uint) (reaction.Type, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.PostReaction, error)
	ListByPost(ctx context.Context, postID uint) ([]models.PostReaction, error)
	WithdrawAllByCustomer(ctx context.Context, customerID uint) (int, error)
	ResetCounters(ctx context.Context, postID uint, likes, dislikes int) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Set(ctx context.Context, customerID, postID uint, desired reaction.Type) (reaction.Transition, error) {
	defer observability.TrackQuery("update", "post_reactions")()

	var applied reaction.Transition
	current := reaction.TypeNone
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PostReaction
		current = reaction.TypeNone
		err := lockForUpdate(tx).
			Where("customer_id = ? AND post_id = ?", customerID, postID).
			First(&existing).Error
		switch {
		case err == nil:
			current = existing.Type
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No row to lock; the unique index on (customer_id, post_id)
			// arbitrates concurrent first reactions below.
		default:
			return err
		}

		applied = reaction.Resolve(current, desired)
		switch applied.Op {
		case reaction.OpNone:
			return nil
		case reaction.OpCreate:
			rec := models.PostReaction{CustomerID: customerID, PostID: postID, Type: desired}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// A concurrent request created the row first; it owns the
				// counter update.
				applied = reaction.Transition{Op: reaction.OpNone}
				return nil
			}
		case reaction.OpUpdate:
			err := tx.Model(&models.PostReaction{}).
				Where("id = ?", existing.ID).
				Update("type", desired).Error
			if err != nil {
				return err
			}
		case reaction.OpDelete:
			if err := tx.Delete(&models.PostReaction{}, existing.ID).Error; err != nil {
				return err
			}
		}

		return applyCounterDeltas(tx, postID, applied)
	})
	if err != nil {
		return reaction.Transition{}, models.NewInternalError(err)
	}

	if applied.Changed() {
		observability.ReactionTransitions.WithLabelValues(string(current), string(desired)).Inc()
	}
	return applied, nil
}

func (r *reactionRepository) Get(ctx context.Context, customerID, postID uint) (reaction.Type, error) {
	var rec models.PostReaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND post_id = ?", customerID, postID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reaction.TypeNone, nil
		}
		return reaction.TypeNone, models.NewInternalError(err)
	}
	return rec.Type, nil
}

func (r *reactionRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.PostReaction, error) {
	var reactions []models.PostReaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint) ([]models.PostReaction, error) {
	var reactions []models.PostReaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

// WithdrawAllByCustomer removes every reaction a customer ever made and
// decrements the affected post counters accordingly. Posts already deleted
// alongside their reactions are simply not matched by the counter updates.
// Returns the number of reactions withdrawn.
func (r *reactionRepository) WithdrawAllByCustomer(ctx context.Context, customerID uint) (int, error) {
	defer observability.TrackQuery("delete", "post_reactions")()

	var withdrawn int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reactions []models.PostReaction
		err := lockForUpdate(tx).
			Where("customer_id = ?", customerID).
			Find(&reactions).Error
		if err != nil {
			return err
		}

		for _, rec := range reactions {
			t := reaction.Resolve(rec.Type, reaction.TypeNone)
			if err := applyCounterDeltas(tx, rec.PostID, t); err != nil {
				return err
			}
		}

		res := tx.Where("customer_id = ?", customerID).Delete(&models.PostReaction{})
		if res.Error != nil {
			return res.Error
		}
		withdrawn = len(reactions)
		return nil
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return withdrawn, nil
}

// lockForUpdate adds a row lock where the dialect supports it. SQLite has no
// FOR UPDATE; its single-writer model serializes these transactions anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// applyCounterDeltas mutates a post's denormalized counters in place with
// atomic SQL expressions. Decrements floor at zero so a drifted counter can
// never go negative.
func applyCounterDeltas(tx *gorm.DB, postID uint, t reaction.Transition) error {
	updates := map[string]interface{}{}
	switch t.LikeDelta {
	case 1:
		updates["like_count"] = gorm.Expr("like_count + 1")
	case -1:
		updates["like_count"] = gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")
	}
	switch t.DislikeDelta {
	case 1:
		updates["dislike_count"] = gorm.Expr("dislike_count + 1")
	case -1:
		updates["dislike_count"] = gorm.Expr("CASE WHEN dislike_count > 0 THEN dislike_count - 1 ELSE 0 END")
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).Updates(updates).Error
}

// ResetCounters rewrites a post's counters to the given values. Used by the
// reconciliation sweep that rebuilds counters from reaction records.
func (r *reactionRepository) ResetCounters(ctx context.Context, postID uint, likes, dislikes int) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{"like_count": likes, "dislike_count": dislikes}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Package seed populates the database with realistic development data.
package seed

import (
	"context"
	"fmt"

	"communityapi/internal/models"
	"communityapi/internal/reaction"
	"communityapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the shared password for all seeded accounts.
const Password = "Passw0rd123"

// Seeder creates development data in dependency order: communities,
// customers, memberships, posts, then reactions. Reactions go through the
// reaction repository so the denormalized counters stay consistent.
type Seeder struct {
	db        *gorm.DB
	reactions repository.ReactionRepository
}

// NewSeeder returns a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:        db,
		reactions: repository.NewReactionRepository(db),
	}
}

// ClearAll removes all seeded domain data.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.PostReaction{},
		&models.Post{},
		&models.Membership{},
		&models.Community{},
		&models.Customer{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Communities inserts a fixed starter catalog, skipping titles that exist.
func (s *Seeder) Communities() ([]models.Community, error) {
	starters := []models.Community{
		{Title: "general", Image: "/public/communities/general.png", Description: "Anything goes"},
		{Title: "gaming", Image: "/public/communities/gaming.png", Description: "Game talk"},
		{Title: "music", Image: "/public/communities/music.png", Description: "Share what you listen to"},
		{Title: "cooking", Image: "/public/communities/cooking.png", Description: "Recipes and results"},
	}

	var out []models.Community
	for _, c := range starters {
		community := c
		err := s.db.Where("title = ?", c.Title).FirstOrCreate(&community).Error
		if err != nil {
			return nil, fmt.Errorf("seed community %q: %w", c.Title, err)
		}
		out = append(out, community)
	}
	return out, nil
}

// Customers creates n accounts with faked profiles.
func (s *Seeder) Customers(n int) ([]models.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("seed%d_%s", i, gofakeit.Email())
		customer := models.Customer{
			Name:        name,
			Email:       email,
			Password:    string(hash),
			Role:        models.CustomerRoleUser,
			DisplayName: models.ResolveDisplayName(name, email),
		}
		if err := s.db.Create(&customer).Error; err != nil {
			return nil, fmt.Errorf("seed customer: %w", err)
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

// Mesh joins every customer to a few random communities and publishes posts
// into them, then sprinkles reactions from fellow members.
func (s *Seeder) Mesh(ctx context.Context, customers []models.Customer, communities []models.Community, nPosts int) error {
	if len(customers) == 0 || len(communities) == 0 {
		return nil
	}

	memberOf := make(map[uint][]uint) // communityID -> member customer IDs
	for _, customer := range customers {
		joins := gofakeit.Number(1, len(communities))
		idxs := seq(len(communities))
		gofakeit.ShuffleInts(idxs)
		for _, idx := range idxs[:joins] {
			community := communities[idx]
			m := models.Membership{CustomerID: customer.ID, CommunityID: community.ID}
			if err := s.db.FirstOrCreate(&m, m).Error; err != nil {
				return fmt.Errorf("seed membership: %w", err)
			}
			memberOf[community.ID] = append(memberOf[community.ID], customer.ID)
		}
	}

	for i := 0; i < nPosts; i++ {
		community := communities[gofakeit.Number(0, len(communities)-1)]
		members := memberOf[community.ID]
		if len(members) == 0 {
			continue
		}
		post := models.Post{
			CustomerID:  members[gofakeit.Number(0, len(members)-1)],
			CommunityID: community.ID,
			Text:        gofakeit.Sentence(gofakeit.Number(5, 25)),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return fmt.Errorf("seed post: %w", err)
		}

		// Roughly half the members react to each post.
		for _, memberID := range members {
			if gofakeit.Bool() {
				continue
			}
			desired := reaction.TypeLike
			if gofakeit.Number(0, 3) == 0 {
				desired = reaction.TypeDislike
			}
			if _, err := s.reactions.Set(ctx, memberID, post.ID, desired); err != nil {
				return fmt.Errorf("seed reaction: %w", err)
			}
		}
	}
	return nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

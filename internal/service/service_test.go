package service

import (
	"io"
	"sync"
	"testing"

	"communityapi/internal/database"
	"communityapi/internal/models"
	"communityapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires services to real repositories over in-memory SQLite and a
// recording media store.
type testEnv struct {
	db          *gorm.DB
	media       *fakeMediaStore
	customers   repository.CustomerRepository
	posts       repository.PostRepository
	reactions   repository.ReactionRepository
	memberships repository.MembershipRepository
	communities repository.CommunityRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	return &testEnv{
		db:          db,
		media:       &fakeMediaStore{},
		customers:   repository.NewCustomerRepository(db),
		posts:       repository.NewPostRepository(db),
		reactions:   repository.NewReactionRepository(db),
		memberships: repository.NewMembershipRepository(db),
		communities: repository.NewCommunityRepository(db),
	}
}

func (e *testEnv) customerService() *CustomerService {
	return NewCustomerService(e.customers, e.posts, e.reactions, e.memberships, e.media)
}

func (e *testEnv) postService() *PostService {
	return NewPostService(e.posts, e.reactions, e.memberships, e.communities, e.media)
}

func (e *testEnv) communityService() *CommunityService {
	return NewCommunityService(e.communities, e.memberships)
}

func (e *testEnv) seedCustomer(t *testing.T) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:        gofakeit.Name(),
		Email:       gofakeit.Email(),
		Password:    "hashed",
		Role:        models.CustomerRoleUser,
		DisplayName: gofakeit.Username(),
	}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}

func (e *testEnv) seedCommunity(t *testing.T) *models.Community {
	t.Helper()
	community := &models.Community{Title: gofakeit.UUID(), Image: "/public/communities/c.png"}
	require.NoError(t, e.db.Create(community).Error)
	return community
}

func (e *testEnv) seedMembership(t *testing.T, customerID, communityID uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Membership{CustomerID: customerID, CommunityID: communityID}).Error)
}

func (e *testEnv) seedPost(t *testing.T, customerID, communityID uint, mediaURL string) *models.Post {
	t.Helper()
	post := &models.Post{
		CustomerID:  customerID,
		CommunityID: communityID,
		Text:        gofakeit.Sentence(6),
		MediaURL:    mediaURL,
	}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

// fakeMediaStore records deletions and can be told to fail them.
type fakeMediaStore struct {
	mu      sync.Mutex
	deleted []string
	failAll error
}

func (f *fakeMediaStore) Save(relPath string, _ io.Reader) (string, error) {
	return "/public/" + relPath, nil
}

func (f *fakeMediaStore) Delete(publicPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	f.deleted = append(f.deleted, publicPath)
	return nil
}

func (f *fakeMediaStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

package repository

import (
	"testing"

	"communityapi/internal/database"
	"communityapi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database limited to a single
// connection so every query sees the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:        gofakeit.Name(),
		Email:       gofakeit.Email(),
		Password:    "hashed-password",
		Role:        "user",
		DisplayName: gofakeit.Username(),
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func createTestCommunity(t *testing.T, db *gorm.DB) *models.Community {
	t.Helper()
	community := &models.Community{
		Title: gofakeit.UUID(),
		Image: "/public/communities/default.png",
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func createTestPost(t *testing.T, db *gorm.DB, customerID, communityID uint) *models.Post {
	t.Helper()
	post := &models.Post{
		CustomerID:  customerID,
		CommunityID: communityID,
		Text:        gofakeit.Sentence(8),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

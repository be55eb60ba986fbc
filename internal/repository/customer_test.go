package repository

import (
	"context"
	"testing"

	"communityapi/internal/cache"
	"communityapi/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCreate_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	email := gofakeit.Email()
	first := &models.Customer{Name: "First", Email: email, Password: "x", Role: "user"}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.Customer{Name: "Second", Email: email, Password: "x", Role: "user"}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestCustomerGetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCustomerGetByEmail_AbsentIsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)

	customer, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestCustomerUpdate_CachedReadKeepsPassword(t *testing.T) {
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	repo := NewCustomerRepository(db)
	ctx := context.Background()
	customer := createTestCustomer(t, db)

	// Warm the cache, then read through it. The serialized form carries no
	// password hash.
	_, err := repo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	cached, err := repo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cached.Password)

	cached.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, cached))

	var stored models.Customer
	require.NoError(t, db.First(&stored, customer.ID).Error)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, customer.Password, stored.Password)
}

func TestCustomerDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	customer := createTestCustomer(t, db)
	require.NoError(t, repo.Delete(ctx, customer.ID))

	_, err := repo.GetByID(ctx, customer.ID)
	require.Error(t, err)
}

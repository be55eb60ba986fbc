package repository

import (
	"context"
	"errors"

	"communityapi/internal/cache"
	"communityapi/internal/models"
	"communityapi/internal/observability"

	"gorm.io/gorm"
)

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository returns a new CustomerRepository implementation.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	key := cache.CustomerKey(id)

	err := cache.Aside(ctx, key, &customer, cache.CustomerTTL, func() error {
		defer observability.TrackQuery("read", "customers")()
		if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Customer", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	defer observability.TrackQuery("create", "customers")()
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update persists the customer's profile columns. The password column is
// never written through this path: cached reads carry no hash (it is stripped
// from the serialized form), so saving the whole struct would erase it.
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	defer observability.TrackQuery("update", "customers")()
	err := r.db.WithContext(ctx).Model(customer).
		Select("name", "email", "role", "display_name", "profile_picture").
		Updates(customer).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCustomer(ctx, customer.ID)
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "customers")()
	if err := r.db.WithContext(ctx).Delete(&models.Customer{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCustomer(ctx, id)
	return nil
}

func (r *customerRepository) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return customers, nil
}

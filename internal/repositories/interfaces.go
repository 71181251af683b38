package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/foodcart/internal/models"
)

var ErrNotFound = errors.New("not found")

type RestaurantRepository interface {
	BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetAll(ctx context.Context) ([]*models.Restaurant, error)
	GetByCuisine(ctx context.Context, cuisine string) ([]*models.Restaurant, error)
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// MenuItemRepository returns menu items with their owning restaurant
// embedded, so that the cart can tell restaurants apart.
type MenuItemRepository interface {
	BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error
	Create(ctx context.Context, menuItem *models.MenuItem) error
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error)
	GetByCategory(ctx context.Context, category string) ([]*models.MenuItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// GetAll returns orders newest first by order date.
	GetAll(ctx context.Context) ([]*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status models.OrderStatus) (*models.Order, error)
}

package postgres

import (
	"context"
	"errors"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// menuItemSelect joins the owning restaurant so it can be embedded.
const menuItemSelect = `
    SELECT
        m.id, m.restaurant_id, m.slug, m.name, m.description, m.price, m.available, m.category,
        r.id, r.slug, r.name, r.description, r.cuisine, r.rating, r.delivery_fee, r.delivery_time, r.address
    FROM menu_items m
    LEFT JOIN restaurants r ON r.id = m.restaurant_id
`

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "restaurant_id", "slug", "name", "description", "price", "available", "category"},
		pgx.CopyFromSlice(len(menuItems), func(i int) ([]interface{}, error) {
			return menuItemValues(menuItems[i]), nil
		}),
	)
	return err
}

func (r *MenuItemRepository) Create(ctx context.Context, menuItem *models.MenuItem) error {
	query := `
        INSERT INTO menu_items (
            id, restaurant_id, slug, name, description, price, available, category
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )
    `
	_, err := r.pool.Exec(ctx, query, menuItemValues(menuItem)...)
	return err
}

func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.pool.QueryRow(ctx, menuItemSelect+` WHERE m.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return item, err
}

func (r *MenuItemRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error) {
	return r.query(ctx, menuItemSelect+` WHERE m.restaurant_id = $1 ORDER BY m.category, m.name`, restaurantID)
}

func (r *MenuItemRepository) GetByCategory(ctx context.Context, category string) ([]*models.MenuItem, error) {
	return r.query(ctx, menuItemSelect+` WHERE m.category = $1 ORDER BY m.name`, category)
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}

func (r *MenuItemRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menuItems []*models.MenuItem
	for rows.Next() {
		menuItem, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		menuItems = append(menuItems, menuItem)
	}
	return menuItems, rows.Err()
}

func menuItemValues(menuItem *models.MenuItem) []interface{} {
	var restaurantID *string
	if id := menuItem.Restaurant.ID(); id != "" {
		restaurantID = &id
	}
	return []interface{}{
		menuItem.ID,
		restaurantID,
		menuItem.Slug,
		menuItem.Name,
		menuItem.Description,
		menuItem.Price,
		menuItem.Available,
		menuItem.Category,
	}
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	menuItem := &models.MenuItem{}
	var (
		restaurantID                                             *string
		rID, rSlug, rName, rDesc, rCuisine, rDeliveryTime, rAddr *string
		rRating, rDeliveryFee                                    *float64
	)
	err := row.Scan(
		&menuItem.ID,
		&restaurantID,
		&menuItem.Slug,
		&menuItem.Name,
		&menuItem.Description,
		&menuItem.Price,
		&menuItem.Available,
		&menuItem.Category,
		&rID, &rSlug, &rName, &rDesc, &rCuisine, &rRating, &rDeliveryFee, &rDeliveryTime, &rAddr,
	)
	if err != nil {
		return nil, err
	}
	switch {
	case rID != nil:
		menuItem.Restaurant = models.ResolvedRestaurant(models.Restaurant{
			ID:           *rID,
			Slug:         deref(rSlug),
			Name:         deref(rName),
			Description:  deref(rDesc),
			Cuisine:      deref(rCuisine),
			Rating:       derefFloat(rRating),
			DeliveryFee:  derefFloat(rDeliveryFee),
			DeliveryTime: deref(rDeliveryTime),
			Address:      deref(rAddr),
		})
	case restaurantID != nil:
		menuItem.Restaurant = models.RestaurantReference(*restaurantID)
	}
	return menuItem, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

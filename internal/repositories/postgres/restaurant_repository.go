package postgres

import (
	"context"
	"errors"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const restaurantColumns = `id, slug, name, description, cuisine, rating, delivery_fee, delivery_time, address`

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"restaurants"},
		[]string{"id", "slug", "name", "description", "cuisine", "rating", "delivery_fee", "delivery_time", "address"},
		pgx.CopyFromSlice(len(restaurants), func(i int) ([]interface{}, error) {
			return restaurantValues(restaurants[i]), nil
		}),
	)
	return err
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
        INSERT INTO restaurants (` + restaurantColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.pool.Exec(ctx, query, restaurantValues(restaurant)...)
	return err
}

func (r *RestaurantRepository) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	return r.query(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY name`)
}

func (r *RestaurantRepository) GetByCuisine(ctx context.Context, cuisine string) ([]*models.Restaurant, error) {
	return r.query(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE cuisine = $1 ORDER BY name`, cuisine)
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1 OR slug = $1`, id)
	restaurant, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return restaurant, err
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *RestaurantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}

func (r *RestaurantRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Restaurant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

func restaurantValues(restaurant *models.Restaurant) []interface{} {
	return []interface{}{
		restaurant.ID,
		restaurant.Slug,
		restaurant.Name,
		restaurant.Description,
		restaurant.Cuisine,
		restaurant.Rating,
		restaurant.DeliveryFee,
		restaurant.DeliveryTime,
		restaurant.Address,
	}
}

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{}
	err := row.Scan(
		&restaurant.ID,
		&restaurant.Slug,
		&restaurant.Name,
		&restaurant.Description,
		&restaurant.Cuisine,
		&restaurant.Rating,
		&restaurant.DeliveryFee,
		&restaurant.DeliveryTime,
		&restaurant.Address,
	)
	if err != nil {
		return nil, err
	}
	return restaurant, nil
}

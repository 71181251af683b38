package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, order_number, customer_name, customer_phone, delivery_address,
    restaurant_id, items_ordered, total_amount, status, order_date, created_at`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	orderDate, err := time.Parse(models.OrderDateLayout, order.OrderDate)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO orders (
            id, order_number, customer_name, customer_phone, delivery_address,
            restaurant_id, items_ordered, total_amount, status, order_date
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
        )
        RETURNING created_at
    `
	return r.pool.QueryRow(ctx, query,
		order.ID,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryAddress,
		order.RestaurantID,
		order.Items,
		order.TotalAmount,
		string(order.Status),
		orderDate,
	).Scan(&order.CreatedAt)
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return order, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderNumber string, status models.OrderStatus) (*models.Order, error) {
	query := `UPDATE orders SET status = $2 WHERE order_number = $1 RETURNING ` + orderColumns
	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return order, err
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var status string
	var orderDate time.Time
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.DeliveryAddress,
		&order.RestaurantID,
		&order.Items,
		&order.TotalAmount,
		&status,
		&orderDate,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = models.OrderStatus(status)
	order.OrderDate = orderDate.Format(models.OrderDateLayout)
	return order, nil
}

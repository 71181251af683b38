package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order // by order number
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]models.Order)}
}

func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.OrderNumber]; exists {
		return fmt.Errorf("order %s already exists", order.OrderNumber)
	}
	stored := *order
	stored.Items = append([]string{}, order.Items...)
	r.orders[order.OrderNumber] = stored
	return nil
}

func (r *OrderRepository) GetAll(context.Context) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]*models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		o := o
		orders = append(orders, &o)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderDate != orders[j].OrderDate {
			return orders[i].OrderDate > orders[j].OrderDate
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *OrderRepository) GetByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[orderNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, orderNumber string, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.Status = status
	r.orders[orderNumber] = o
	return &o, nil
}

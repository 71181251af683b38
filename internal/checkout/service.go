// Package checkout turns the current cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/foodcart/internal/cart"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/publishers"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/lucsky/cuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMissingRestaurant = errors.New("restaurant information is missing")
	// ErrSubmission is returned when the order store rejects or cannot be
	// reached; the cart is left untouched so the order can be retried.
	ErrSubmission = errors.New("failed to create order")
)

type Customer struct {
	Name            string `json:"customer_name"`
	Phone           string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address"`
}

type Service struct {
	cart      *cart.Store
	orders    repositories.OrderRepository
	publisher publishers.OrderPublisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewService(store *cart.Store, orders repositories.OrderRepository, publisher publishers.OrderPublisher, logger logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = publishers.Noop{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		cart:      store,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for order numbers and dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// OrderNumber formats the display number of an order placed at t: "#"
// followed by the last six digits of the Unix millisecond clock.
func OrderNumber(t time.Time) string {
	ms := fmt.Sprintf("%06d", t.UnixMilli())
	return "#" + ms[len(ms)-6:]
}

// BuildOrder snapshots c into an order for customer.
func BuildOrder(c models.Cart, customer Customer, now time.Time) (*models.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if c.Restaurant == nil || c.Restaurant.ID == "" {
		return nil, ErrMissingRestaurant
	}
	order := &models.Order{
		OrderNumber:     OrderNumber(now),
		CustomerName:    strings.TrimSpace(customer.Name),
		CustomerPhone:   strings.TrimSpace(customer.Phone),
		DeliveryAddress: strings.TrimSpace(customer.DeliveryAddress),
		RestaurantID:    c.Restaurant.ID,
		Items:           c.ItemIDs(),
		TotalAmount:     c.Total,
		Status:          models.OrderStatusPlaced,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// PlaceOrder submits the current cart. The cart is cleared only after the
// order has been stored, and only if it was not changed meanwhile.
func (s *Service) PlaceOrder(ctx context.Context, customer Customer) (*models.Order, error) {
	snapshot := s.cart.Cart(ctx)
	order, err := BuildOrder(snapshot, customer, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Submit(ctx, order); err != nil {
		return nil, err
	}
	if _, cleared := s.cart.ClearCartIfUnchanged(ctx, snapshot); !cleared {
		s.logger.WithField("order_number", order.OrderNumber).Warn("cart changed during checkout, kept")
	}
	return order, nil
}

// Submit validates and stores an order document, filling in the id, the
// order date and the creation time when absent, then announces it.
// A failed announcement is logged and does not fail the submission.
func (s *Service) Submit(ctx context.Context, order *models.Order) error {
	now := s.now()
	if order.OrderDate == "" {
		order.OrderDate = now.Format(models.OrderDateLayout)
	}
	if err := order.Validate(); err != nil {
		return err
	}
	if order.ID == "" {
		order.ID = cuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}

	logger := s.logger.WithField("order_number", order.OrderNumber)
	if err := s.orders.Create(ctx, order); err != nil {
		logger.WithError(err).Error("error creating order")
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	if err := s.publisher.PublishOrder(ctx, order); err != nil {
		logger.WithError(err).Warn("order stored but not announced")
	}
	logger.WithFields(logrus.Fields{
		"restaurant": order.RestaurantID,
		"total":      order.TotalAmount,
	}).Info("order placed")
	return nil
}

func (s *Service) Orders(ctx context.Context) ([]*models.Order, error) {
	return s.orders.GetAll(ctx)
}

func (s *Service) Order(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.orders.GetByNumber(ctx, orderNumber)
}

// UpdateStatus accepts a status display value or key.
func (s *Service) UpdateStatus(ctx context.Context, orderNumber, status string) (*models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orders.UpdateStatus(ctx, orderNumber, parsed)
}

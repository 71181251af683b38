// Package simulator backfills a realistic order history by running
// simulated customers through the cart and checkout, minute by minute.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/chrisdamba/foodcart/internal/cart"
	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/publishers"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/chrisdamba/foodcart/internal/storage"
	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"
)

type Stats struct {
	OrdersPlaced    int
	OrdersDelivered int
	StatusUpdates   int
	Failures        int
	Revenue         float64
}

type Simulator struct {
	Config      *models.Config
	CurrentTime time.Time

	restaurants repositories.RestaurantRepository
	menuItems   repositories.MenuItemRepository
	orders      repositories.OrderRepository
	cart        *cart.Store
	checkout    *checkout.Service
	logger      logrus.FieldLogger

	rng     *rand.Rand
	fake    faker.Faker
	queue   eventQueue
	placeAt time.Time // clock seen by checkout

	restaurantIDs []string
	menus         map[string][]*models.MenuItem // available items by restaurant id
	stats         Stats
}

// NewSimulator builds a simulator placing orders into orders. Simulated
// customers use a private in-memory cart.
func NewSimulator(config *models.Config, restaurants repositories.RestaurantRepository, menuItems repositories.MenuItemRepository, orders repositories.OrderRepository, publisher publishers.OrderPublisher, logger logrus.FieldLogger) *Simulator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	seed := int64(config.Seed)
	s := &Simulator{
		Config:      config,
		restaurants: restaurants,
		menuItems:   menuItems,
		orders:      orders,
		logger:      logger,
		rng:         rand.New(rand.NewSource(seed)),
		fake:        faker.NewWithSeed(rand.NewSource(seed + 2)),
		menus:       make(map[string][]*models.MenuItem),
	}
	s.cart = cart.NewStore(storage.NewMemoryStore(), cart.WithKey("simulated-customer"), cart.WithLogger(logger))
	s.checkout = checkout.NewService(s.cart, orders, publisher, logger).WithClock(func() time.Time { return s.placeAt })
	return s
}

// Run simulates every minute in [start, end). Orders still in flight at end
// keep their last status. progress, when set, is called once per simulated
// hour.
func (s *Simulator) Run(ctx context.Context, start, end time.Time, progress func(time.Time)) (Stats, error) {
	if err := s.loadCatalog(ctx); err != nil {
		return s.stats, err
	}
	s.logger.WithFields(logrus.Fields{
		"start":       start.Format(time.RFC3339),
		"end":         end.Format(time.RFC3339),
		"restaurants": len(s.restaurantIDs),
	}).Info("simulation starts")

	for s.CurrentTime = start.Truncate(time.Minute); s.CurrentTime.Before(end); s.CurrentTime = s.CurrentTime.Add(time.Minute) {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		s.processEvents(ctx)
		s.generateOrders(ctx)
		if progress != nil && s.CurrentTime.Minute() == 0 {
			progress(s.CurrentTime)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"placed":    s.stats.OrdersPlaced,
		"delivered": s.stats.OrdersDelivered,
		"revenue":   fmt.Sprintf("%.2f", s.stats.Revenue),
	}).Info("simulation completed")
	return s.stats, nil
}

func (s *Simulator) loadCatalog(ctx context.Context) error {
	restaurants, err := s.restaurants.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading restaurants: %w", err)
	}
	for _, r := range restaurants {
		items, err := s.menuItems.GetByRestaurantID(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("loading menu of %s: %w", r.ID, err)
		}
		var available []*models.MenuItem
		for _, item := range items {
			if item.Available && item.Price > 0 {
				available = append(available, item)
			}
		}
		if len(available) == 0 {
			continue
		}
		s.restaurantIDs = append(s.restaurantIDs, r.ID)
		s.menus[r.ID] = available
	}
	if len(s.restaurantIDs) == 0 {
		return errors.New("catalog has no restaurant with available menu items")
	}
	return nil
}

func (s *Simulator) processEvents(ctx context.Context) {
	for e := s.queue.dequeueDue(s.CurrentTime); e != nil; e = s.queue.dequeueDue(s.CurrentTime) {
		if _, err := s.checkout.UpdateStatus(ctx, e.OrderNumber, string(e.Status)); err != nil {
			s.logger.WithError(err).WithField("order_number", e.OrderNumber).Warn("failed to advance order")
			s.stats.Failures++
			continue
		}
		s.stats.StatusUpdates++
		if e.Status == models.OrderStatusDelivered {
			s.stats.OrdersDelivered++
		}
	}
}

func (s *Simulator) generateOrders(ctx context.Context) {
	n := sampleCount(s.rng, ordersPerMinute(s.Config, s.CurrentTime))
	for i := 0; i < n; i++ {
		s.placeOrder(ctx)
	}
}

// placeOrder fills the simulated customer's cart from one restaurant and
// checks out.
func (s *Simulator) placeOrder(ctx context.Context) {
	restaurantID := s.restaurantIDs[s.rng.Intn(len(s.restaurantIDs))]
	menu := s.menus[restaurantID]
	lines := 1 + s.rng.Intn(min(3, len(menu)))
	for _, idx := range s.rng.Perm(len(menu))[:lines] {
		s.cart.AddToCart(ctx, *menu[idx], 1+s.rng.Intn(2), "")
	}

	s.placeAt = s.uniqueOrderTime(ctx)
	order, err := s.checkout.PlaceOrder(ctx, s.customer())
	if err != nil {
		s.logger.WithError(err).Warn("simulated checkout failed")
		s.cart.ClearCart(ctx)
		s.stats.Failures++
		return
	}
	s.stats.OrdersPlaced++
	s.stats.Revenue += order.TotalAmount
	s.scheduleLifecycle(order, s.placeAt)
}

// uniqueOrderTime picks a moment within the current minute whose order
// number is not taken yet.
func (s *Simulator) uniqueOrderTime(ctx context.Context) time.Time {
	candidate := s.CurrentTime.Add(time.Duration(s.rng.Intn(60000)) * time.Millisecond)
	for i := 0; i < 100; i++ {
		_, err := s.orders.GetByNumber(ctx, checkout.OrderNumber(candidate))
		if errors.Is(err, repositories.ErrNotFound) {
			break
		}
		candidate = candidate.Add(time.Millisecond)
	}
	return candidate
}

func (s *Simulator) scheduleLifecycle(order *models.Order, placedAt time.Time) {
	delays := statusDelays(s.rng, placedAt, len(order.Items))
	at := placedAt
	for i := 0; i < len(models.OrderStatuses)-1; i++ {
		at = at.Add(delays[models.OrderStatuses[i]])
		s.queue.enqueue(&event{Time: at, OrderNumber: order.OrderNumber, Status: models.OrderStatuses[i+1]})
	}
}

func (s *Simulator) customer() checkout.Customer {
	return checkout.Customer{
		Name:            s.fake.Person().Name(),
		Phone:           s.fake.Phone().Number(),
		DeliveryAddress: s.fake.Address().Address(),
	}
}

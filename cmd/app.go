package cmd

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodcart/internal/cart"
	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/factories"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/publishers"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/chrisdamba/foodcart/internal/repositories/memory"
	"github.com/chrisdamba/foodcart/internal/repositories/postgres"
	"github.com/chrisdamba/foodcart/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app holds the components shared by the commands.
type app struct {
	store       *cart.Store
	restaurants repositories.RestaurantRepository
	menuItems   repositories.MenuItemRepository
	orders      repositories.OrderRepository
	publisher   publishers.OrderPublisher
	checkout    *checkout.Service

	closers []func()
}

type appOptions struct {
	catalog  bool // restaurants and menu items
	orders   bool // order repository and publisher
	seedDemo bool // fill an in-memory catalog from the factories
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{}

	kv, closeKV, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("opening cart storage: %w", err)
	}
	a.closers = append(a.closers, closeKV)
	a.store = cart.NewStore(kv, cart.WithKey(cfg.CartKey), cart.WithLogger(log.WithField("component", "cart")))

	if !opts.catalog && !opts.orders {
		return a, nil
	}

	switch cfg.CatalogDriver {
	case models.StorageDriverMemory, "":
		catalog := memory.NewCatalog()
		a.restaurants = catalog.Restaurants()
		a.menuItems = catalog.MenuItems()
		a.orders = memory.NewOrderRepository()
		if opts.seedDemo {
			generated := factories.GenerateCatalog(cfg, true, nil)
			if err := a.restaurants.BulkCreate(ctx, generated.Restaurants); err != nil {
				a.Close()
				return nil, err
			}
			if err := a.menuItems.BulkCreate(ctx, generated.MenuItems); err != nil {
				a.Close()
				return nil, err
			}
		}
	case models.StorageDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to create connection pool: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			a.Close()
			return nil, err
		}
		a.restaurants = postgres.NewRestaurantRepository(pool)
		a.menuItems = postgres.NewMenuItemRepository(pool)
		a.orders = postgres.NewOrderRepository(pool)
	default:
		a.Close()
		return nil, fmt.Errorf("unsupported catalog driver: %s", cfg.CatalogDriver)
	}

	if opts.orders {
		publisher, err := publishers.New(cfg, log.WithField("component", "publisher"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.publisher = publisher
		a.closers = append(a.closers, func() {
			if err := publisher.Close(); err != nil {
				log.WithError(err).Warn("error closing publisher")
			}
		})
		a.checkout = checkout.NewService(a.store, a.orders, publisher, log.WithField("component", "checkout"))
	}
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Package memory holds in-process repositories used when no database is
// configured and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
)

// Catalog stores restaurants and menu items. It implements both
// repositories.RestaurantRepository and repositories.MenuItemRepository
// through the views returned by Restaurants and MenuItems.
type Catalog struct {
	mu          sync.RWMutex
	restaurants map[string]models.Restaurant
	menuItems   map[string]models.MenuItem
}

func NewCatalog() *Catalog {
	return &Catalog{
		restaurants: make(map[string]models.Restaurant),
		menuItems:   make(map[string]models.MenuItem),
	}
}

func (c *Catalog) Restaurants() repositories.RestaurantRepository { return restaurantView{c} }

func (c *Catalog) MenuItems() repositories.MenuItemRepository { return menuItemView{c} }

type restaurantView struct{ c *Catalog }

func (v restaurantView) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	for _, r := range restaurants {
		if err := v.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (v restaurantView) Create(_ context.Context, restaurant *models.Restaurant) error {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	v.c.restaurants[restaurant.ID] = *restaurant
	return nil
}

func (v restaurantView) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	return v.filter(func(models.Restaurant) bool { return true }), nil
}

func (v restaurantView) GetByCuisine(_ context.Context, cuisine string) ([]*models.Restaurant, error) {
	return v.filter(func(r models.Restaurant) bool { return r.Cuisine == cuisine }), nil
}

func (v restaurantView) GetByID(_ context.Context, id string) (*models.Restaurant, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	if r, ok := v.c.restaurants[id]; ok {
		return &r, nil
	}
	for _, r := range v.c.restaurants {
		if r.Slug == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (v restaurantView) Count(context.Context) (int, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	return len(v.c.restaurants), nil
}

func (v restaurantView) DeleteAll(context.Context) error {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	v.c.restaurants = make(map[string]models.Restaurant)
	v.c.menuItems = make(map[string]models.MenuItem)
	return nil
}

func (v restaurantView) filter(keep func(models.Restaurant) bool) []*models.Restaurant {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	var out []*models.Restaurant
	for _, r := range v.c.restaurants {
		if keep(r) {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type menuItemView struct{ c *Catalog }

func (v menuItemView) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	for _, m := range menuItems {
		if err := v.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Create stores the item with only its restaurant id; the restaurant is
// embedded again on read.
func (v menuItemView) Create(_ context.Context, menuItem *models.MenuItem) error {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	stored := *menuItem
	if id := menuItem.Restaurant.ID(); id != "" {
		stored.Restaurant = models.RestaurantReference(id)
	}
	v.c.menuItems[stored.ID] = stored
	return nil
}

func (v menuItemView) GetByID(_ context.Context, id string) (*models.MenuItem, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	m, ok := v.c.menuItems[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return v.c.embed(m), nil
}

func (v menuItemView) GetByRestaurantID(_ context.Context, restaurantID string) ([]*models.MenuItem, error) {
	return v.filter(func(m models.MenuItem) bool { return m.Restaurant.ID() == restaurantID }), nil
}

func (v menuItemView) GetByCategory(_ context.Context, category string) ([]*models.MenuItem, error) {
	return v.filter(func(m models.MenuItem) bool { return m.Category == category }), nil
}

func (v menuItemView) Count(context.Context) (int, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	return len(v.c.menuItems), nil
}

func (v menuItemView) DeleteAll(context.Context) error {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	v.c.menuItems = make(map[string]models.MenuItem)
	return nil
}

func (v menuItemView) filter(keep func(models.MenuItem) bool) []*models.MenuItem {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	var out []*models.MenuItem
	for _, m := range v.c.menuItems {
		if keep(m) {
			out = append(out, v.c.embed(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// embed must be called with mu held.
func (c *Catalog) embed(m models.MenuItem) *models.MenuItem {
	if r, ok := c.restaurants[m.Restaurant.ID()]; ok {
		m.Restaurant = models.ResolvedRestaurant(r)
	}
	return &m
}

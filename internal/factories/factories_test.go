package factories

import (
	"testing"

	"github.com/chrisdamba/foodcart/internal/models"
)

func TestCreateRestaurant(t *testing.T) {
	cfg := &models.Config{MinDeliveryFee: 1, MaxDeliveryFee: 4}
	rf := NewRestaurantFactory(7)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		r := rf.CreateRestaurant(cfg)
		if r.ID == "" || r.Name == "" || r.DeliveryTime == "" {
			t.Fatalf("incomplete restaurant %+v", r)
		}
		if r.DeliveryFee < 1 || r.DeliveryFee > 4 {
			t.Fatalf("delivery fee %v out of range", r.DeliveryFee)
		}
		if seen[r.Slug] {
			t.Fatalf("duplicate slug %q", r.Slug)
		}
		seen[r.Slug] = true
	}
}

func TestCreateMenuItem(t *testing.T) {
	restaurant := &models.Restaurant{ID: "r1", Cuisine: models.CuisineMexican}
	mf := NewMenuItemFactory(7)
	for i := 0; i < 20; i++ {
		item := mf.CreateMenuItem(restaurant)
		if item.Price <= 0 || item.Name == "" {
			t.Fatalf("incomplete item %+v", item)
		}
		if item.Restaurant.ID() != "r1" {
			t.Fatalf("restaurant ref = %q", item.Restaurant.ID())
		}
	}
}

func TestGenerateCatalogStableIDs(t *testing.T) {
	cfg := &models.Config{Seed: 3, InitialRestaurants: 4, MenuItemsPerRestaurant: 5, MaxDeliveryFee: 5}
	calls := 0
	first := GenerateCatalog(cfg, true, func() { calls++ })
	second := GenerateCatalog(cfg, true, nil)

	if len(first.Restaurants) != 4 || len(first.MenuItems) != 20 || calls != 4 {
		t.Fatalf("generated %d restaurants, %d items, %d progress calls", len(first.Restaurants), len(first.MenuItems), calls)
	}
	for i, r := range first.Restaurants {
		if r.ID != r.Slug || r.ID != second.Restaurants[i].ID {
			t.Fatalf("restaurant %d id %q not stable (slug %q, regenerated %q)", i, r.ID, r.Slug, second.Restaurants[i].ID)
		}
	}
	for i, m := range first.MenuItems {
		if m.ID != second.MenuItems[i].ID || m.Name != second.MenuItems[i].Name {
			t.Fatalf("menu item %d differs between runs: %+v vs %+v", i, m, second.MenuItems[i])
		}
	}
	if want := first.Restaurants[0].ID + "-1"; first.MenuItems[0].ID != want {
		t.Fatalf("first item id = %q, want %q", first.MenuItems[0].ID, want)
	}
}

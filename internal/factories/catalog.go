package factories

import "github.com/chrisdamba/foodcart/internal/models"

// Catalog is a generated set of restaurants and their menus.
type Catalog struct {
	Restaurants []*models.Restaurant
	MenuItems   []*models.MenuItem
}

// GenerateCatalog builds config.InitialRestaurants restaurants with
// config.MenuItemsPerRestaurant items each. progress, when set, is called
// once per restaurant.
func GenerateCatalog(config *models.Config, stableIDs bool, progress func()) Catalog {
	seed := int64(config.Seed)
	rf := NewRestaurantFactory(seed)
	mf := NewMenuItemFactory(seed + 1)
	if stableIDs {
		rf.StableIDs()
		mf.StableIDs()
	}

	var catalog Catalog
	for i := 0; i < config.InitialRestaurants; i++ {
		restaurant := rf.CreateRestaurant(config)
		catalog.Restaurants = append(catalog.Restaurants, restaurant)
		for j := 0; j < config.MenuItemsPerRestaurant; j++ {
			catalog.MenuItems = append(catalog.MenuItems, mf.CreateMenuItem(restaurant))
		}
		if progress != nil {
			progress()
		}
	}
	return catalog
}

package factories

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type MenuItemFactory struct {
	fake      faker.Faker
	stableIDs bool
	counts    map[string]int // items created per restaurant
}

func NewMenuItemFactory(seed int64) *MenuItemFactory {
	return &MenuItemFactory{
		fake:   faker.NewWithSeed(rand.NewSource(seed)),
		counts: make(map[string]int),
	}
}

// StableIDs numbers items per restaurant ("<restaurant id>-<n>") instead of
// assigning random cuids.
func (mf *MenuItemFactory) StableIDs() *MenuItemFactory {
	mf.stableIDs = true
	return mf
}

func (mf *MenuItemFactory) CreateMenuItem(restaurant *models.Restaurant) *models.MenuItem {
	category := mf.fake.RandomStringElement(models.Categories)
	name := generateMenuItemName(mf.fake, restaurant.Cuisine, category)
	mf.counts[restaurant.ID]++
	id := cuid.New()
	if mf.stableIDs {
		id = fmt.Sprintf("%s-%d", restaurant.ID, mf.counts[restaurant.ID])
	}
	return &models.MenuItem{
		ID:          id,
		Slug:        strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:        name,
		Description: mf.fake.Lorem().Sentence(10),
		Price:       generatePrice(mf.fake, category),
		Available:   mf.fake.IntBetween(0, 9) > 0, // roughly one in ten sold out
		Category:    category,
		Restaurant:  models.RestaurantReference(restaurant.ID),
	}
}

func generatePrice(fake faker.Faker, category string) float64 {
	switch category {
	case models.CategoryBeverages:
		return fake.Float64(2, 2, 6)
	case models.CategoryDesserts, models.CategoryAppetizers:
		return fake.Float64(2, 4, 12)
	default:
		return fake.Float64(2, 9, 30)
	}
}

func generateMenuItemName(fake faker.Faker, cuisine, category string) string {
	items := map[string]map[string][]string{
		models.CuisineItalian: {
			models.CategoryAppetizers: {"Bruschetta", "Arancini", "Caprese Salad"},
			models.CategoryEntrees:    {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna"},
			models.CategoryDesserts:   {"Tiramisu", "Panna Cotta"},
		},
		models.CuisineMexican: {
			models.CategoryAppetizers: {"Guacamole", "Elote"},
			models.CategoryEntrees:    {"Tacos", "Burrito", "Quesadilla"},
			models.CategoryDesserts:   {"Churros", "Flan"},
		},
		models.CuisineAsian: {
			models.CategoryAppetizers: {"Dumplings", "Spring Rolls", "Miso Soup"},
			models.CategoryEntrees:    {"Pad Thai", "Ramen", "Kung Pao Chicken"},
			models.CategoryDesserts:   {"Mango Sticky Rice", "Mochi"},
		},
		models.CuisineAmerican: {
			models.CategoryAppetizers: {"Buffalo Wings", "Onion Rings"},
			models.CategoryEntrees:    {"Cheeseburger", "BBQ Ribs", "Hot Dog"},
			models.CategoryDesserts:   {"Apple Pie", "Brownie"},
		},
		models.CuisineIndian: {
			models.CategoryAppetizers: {"Samosa", "Pakora"},
			models.CategoryEntrees:    {"Chicken Tikka Masala", "Biryani", "Vegetable Curry"},
			models.CategoryDesserts:   {"Gulab Jamun", "Kulfi"},
		},
	}
	if category == models.CategoryBeverages {
		return fake.RandomStringElement([]string{"Lemonade", "Iced Tea", "Sparkling Water", "Mango Lassi", "Cola"})
	}
	if names, ok := items[cuisine][category]; ok {
		return fake.RandomStringElement(names)
	}
	return "Special of the Day"
}

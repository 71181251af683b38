package factories

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type RestaurantFactory struct {
	fake      faker.Faker
	slugCache sync.Map // to track used slugs
	stableIDs bool
}

func NewRestaurantFactory(seed int64) *RestaurantFactory {
	return &RestaurantFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// StableIDs makes the factory use the slug as the restaurant id, so a
// catalog regenerated from the same seed keeps its ids.
func (rf *RestaurantFactory) StableIDs() *RestaurantFactory {
	rf.stableIDs = true
	return rf
}

func (rf *RestaurantFactory) CreateRestaurant(config *models.Config) *models.Restaurant {
	name := rf.fake.Company().Name()
	minPrep := rf.fake.IntBetween(10, 30)
	slug := rf.createUniqueSlug(name)
	id := slug
	if !rf.stableIDs {
		id = cuid.New()
	}

	return &models.Restaurant{
		ID:           id,
		Slug:         slug,
		Name:         name,
		Description:  rf.fake.Lorem().Sentence(8),
		Cuisine:      rf.fake.RandomStringElement(models.Cuisines),
		Rating:       rf.fake.Float64(1, 3, 5),
		DeliveryFee:  deliveryFee(rf.fake, config.MinDeliveryFee, config.MaxDeliveryFee),
		DeliveryTime: fmt.Sprintf("%d-%d min", minPrep, minPrep+rf.fake.IntBetween(5, 20)),
		Address:      rf.fake.Address().Address(),
	}
}

// deliveryFee picks a fee in [min, max] rounded to cents.
func deliveryFee(fake faker.Faker, min, max float64) float64 {
	if max <= min {
		return min
	}
	cents := fake.IntBetween(int(min*100), int(max*100))
	return float64(cents) / 100
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

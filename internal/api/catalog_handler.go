package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/gin-gonic/gin"
)

// ListRestaurants handles GET /api/restaurants[?cuisine=]
func (s *Server) ListRestaurants(c *gin.Context) {
	var (
		restaurants []*models.Restaurant
		err         error
	)
	if cuisine := c.Query("cuisine"); cuisine != "" {
		restaurants, err = s.restaurants.GetByCuisine(c.Request.Context(), cuisine)
	} else {
		restaurants, err = s.restaurants.GetAll(c.Request.Context())
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, "INTERNAL", "Failed to load restaurants", err)
		return
	}
	if restaurants == nil {
		restaurants = []*models.Restaurant{}
	}
	c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant handles GET /api/restaurants/:id, where id may also be a slug.
func (s *Server) GetRestaurant(c *gin.Context) {
	restaurant, ok := s.lookupRestaurant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// GetMenu handles GET /api/restaurants/:id/menu[?category=]
func (s *Server) GetMenu(c *gin.Context) {
	restaurant, ok := s.lookupRestaurant(c)
	if !ok {
		return
	}
	items, err := s.menuItems.GetByRestaurantID(c.Request.Context(), restaurant.ID)
	if err != nil {
		abort(c, http.StatusInternalServerError, "INTERNAL", "Failed to load menu", err)
		return
	}
	if items == nil {
		items = []*models.MenuItem{}
	}
	if category := c.Query("category"); category != "" {
		filtered := items[:0]
		for _, item := range items {
			if strings.EqualFold(item.Category, category) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) lookupRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	restaurant, err := s.restaurants.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repositories.ErrNotFound) {
		abort(c, http.StatusNotFound, "NOT_FOUND", "Restaurant not found", nil)
		return nil, false
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, "INTERNAL", "Failed to load restaurant", err)
		return nil, false
	}
	return restaurant, true
}

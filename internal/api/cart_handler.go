package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/gin-gonic/gin"
)

const cartUpdatedEvent = "cartUpdated"

type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /api/cart
func (s *Server) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cart.Cart(c.Request.Context()))
}

// CartCount handles GET /api/cart/count
func (s *Server) CartCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.cart.ItemCount(c.Request.Context())})
}

// AddItem handles POST /api/cart/items. The menu item is looked up in the
// catalog so the cart receives its owning restaurant.
func (s *Server) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", err)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	item, err := s.menuItems.GetByID(ctx, req.MenuItemID)
	if errors.Is(err, repositories.ErrNotFound) {
		abort(c, http.StatusNotFound, "NOT_FOUND", "Menu item not found", nil)
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, "INTERNAL", "Failed to load menu item", err)
		return
	}
	if !item.Available {
		abort(c, http.StatusConflict, "UNAVAILABLE", "Menu item is not available", nil)
		return
	}

	c.JSON(http.StatusOK, s.cart.AddToCart(ctx, *item, req.Quantity, req.Notes))
}

// UpdateItem handles PATCH /api/cart/items/:id. A quantity below one removes
// the line.
func (s *Server) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", err)
		return
	}
	c.JSON(http.StatusOK, s.cart.UpdateItemQuantity(c.Request.Context(), c.Param("id"), *req.Quantity))
}

// RemoveItem handles DELETE /api/cart/items/:id
func (s *Server) RemoveItem(c *gin.Context) {
	c.JSON(http.StatusOK, s.cart.RemoveFromCart(c.Request.Context(), c.Param("id")))
}

// ClearCart handles DELETE /api/cart
func (s *Server) ClearCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cart.ClearCart(c.Request.Context()))
}

// CartEvents handles GET /api/cart/events. It streams the current cart once,
// then again after every change until the client goes away.
func (s *Server) CartEvents(c *gin.Context) {
	ctx := c.Request.Context()
	changes := s.cart.Subscribe(ctx)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent(cartUpdatedEvent, s.cart.Cart(ctx))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent(cartUpdatedEvent, s.cart.Cart(ctx))
			return true
		}
	})
}

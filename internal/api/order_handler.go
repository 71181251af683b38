package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/gin-gonic/gin"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Checkout handles POST /api/checkout
func (s *Server) Checkout(c *gin.Context) {
	var customer checkout.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", err)
		return
	}
	order, err := s.checkout.PlaceOrder(c.Request.Context(), customer)
	if err != nil {
		s.orderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// SubmitOrder handles POST /api/orders with a complete order document.
func (s *Server) SubmitOrder(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", err)
		return
	}
	order, err := models.DecodeOrderRequest(body)
	if err != nil {
		s.orderError(c, err)
		return
	}
	if err := s.checkout.Submit(c.Request.Context(), order); err != nil {
		s.orderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /api/orders
func (s *Server) ListOrders(c *gin.Context) {
	orders, err := s.checkout.Orders(c.Request.Context())
	if err != nil {
		abort(c, http.StatusInternalServerError, "INTERNAL", "Failed to load orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:number. The leading "#" of the order
// number is optional.
func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.checkout.Order(c.Request.Context(), orderNumberParam(c))
	if err != nil {
		s.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/orders/:number/status
func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", err)
		return
	}
	order, err := s.checkout.UpdateStatus(c.Request.Context(), orderNumberParam(c), req.Status)
	if err != nil {
		s.orderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func orderNumberParam(c *gin.Context) string {
	number := c.Param("number")
	if !strings.HasPrefix(number, "#") {
		number = "#" + number
	}
	return number
}

func (s *Server) orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		abort(c, http.StatusBadRequest, "EMPTY_CART", "Your cart is empty", nil)
	case errors.Is(err, checkout.ErrMissingRestaurant):
		abort(c, http.StatusBadRequest, "MISSING_RESTAURANT", "Restaurant information is missing", nil)
	case errors.Is(err, models.ErrInvalidOrder), errors.Is(err, models.ErrUnknownStatus):
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid order", err)
	case errors.Is(err, repositories.ErrNotFound):
		abort(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	default:
		abort(c, http.StatusInternalServerError, "SUBMISSION_FAILED", "Failed to create order", err)
	}
}

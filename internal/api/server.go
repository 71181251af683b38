// Package api exposes the storefront over HTTP: catalog browsing, the cart,
// checkout and order tracking.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chrisdamba/foodcart/internal/cart"
	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Server struct {
	restaurants repositories.RestaurantRepository
	menuItems   repositories.MenuItemRepository
	cart        *cart.Store
	checkout    *checkout.Service
	logger      logrus.FieldLogger
}

func NewServer(restaurants repositories.RestaurantRepository, menuItems repositories.MenuItemRepository, store *cart.Store, checkoutService *checkout.Service, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		restaurants: restaurants,
		menuItems:   menuItems,
		cart:        store,
		checkout:    checkoutService,
		logger:      logger,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := router.Group("/api")
	api.GET("/restaurants", s.ListRestaurants)
	api.GET("/restaurants/:id", s.GetRestaurant)
	api.GET("/restaurants/:id/menu", s.GetMenu)

	api.GET("/cart", s.GetCart)
	api.DELETE("/cart", s.ClearCart)
	api.GET("/cart/count", s.CartCount)
	api.GET("/cart/events", s.CartEvents)
	api.POST("/cart/items", s.AddItem)
	api.PATCH("/cart/items/:id", s.UpdateItem)
	api.DELETE("/cart/items/:id", s.RemoveItem)

	api.POST("/checkout", s.Checkout)
	api.POST("/orders", s.SubmitOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:number", s.GetOrder)
	api.PATCH("/orders/:number/status", s.UpdateOrderStatus)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("starting http server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Warn("request failed")
			return
		}
		entry.Debug("request handled")
	}
}

func abort(c *gin.Context, status int, code, message string, err error) {
	resp := ErrorResponse{Error: code, Message: message}
	if err != nil {
		resp.Details = err.Error()
		c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}

// Package publishers announces placed orders to a message broker.
package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/sirupsen/logrus"
)

const EventOrderPlaced = "OrderPlaced"

type OrderPublisher interface {
	PublishOrder(ctx context.Context, order *models.Order) error
	Close() error
}

// OrderPlacedEvent is the message body sent for every placed order.
type OrderPlacedEvent struct {
	Timestamp    int64    `json:"timestamp"`
	EventType    string   `json:"eventType"`
	OrderID      string   `json:"orderId"`
	OrderNumber  string   `json:"orderNumber"`
	RestaurantID string   `json:"restaurantId"`
	Items        []string `json:"itemIds"`
	TotalAmount  float64  `json:"totalAmount"`
	Status       string   `json:"status"`
}

func NewOrderPlacedEvent(order *models.Order, now time.Time) OrderPlacedEvent {
	return OrderPlacedEvent{
		Timestamp:    now.UnixMilli(),
		EventType:    EventOrderPlaced,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		RestaurantID: order.RestaurantID,
		Items:        order.Items,
		TotalAmount:  order.TotalAmount,
		Status:       string(order.Status),
	}
}

func encodeOrder(order *models.Order) ([]byte, error) {
	body, err := json.Marshal(NewOrderPlacedEvent(order, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}
	return body, nil
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrder(context.Context, *models.Order) error { return nil }

func (Noop) Close() error { return nil }

// New returns the publisher selected by cfg.Publisher.
func New(cfg *models.Config, logger logrus.FieldLogger) (OrderPublisher, error) {
	switch cfg.Publisher {
	case models.PublisherNone, "":
		return Noop{}, nil
	case models.PublisherKafka:
		return NewSaramaPublisher(cfg, logger)
	case models.PublisherRabbitMQ:
		return NewRabbitMQPublisher(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported publisher: %s", cfg.Publisher)
	}
}

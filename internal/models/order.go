package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrUnknownStatus = errors.New("unknown order status")
)

// OrderStatus is the display value of an order's status.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusConfirmed      OrderStatus = "Confirmed"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusReady          OrderStatus = "Ready for Pickup"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

var orderStatusKeys = map[OrderStatus]string{
	OrderStatusPlaced:         "placed",
	OrderStatusConfirmed:      "confirmed",
	OrderStatusPreparing:      "preparing",
	OrderStatusReady:          "ready-for-pickup",
	OrderStatusOutForDelivery: "out-for-delivery",
	OrderStatusDelivered:      "delivered",
}

// ParseOrderStatus accepts either a display value or its key.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for status, key := range orderStatusKeys {
		if string(status) == s || key == s {
			return status, nil
		}
	}
	names := make([]string, 0, len(OrderStatuses))
	for _, status := range OrderStatuses {
		names = append(names, string(status))
	}
	return "", fmt.Errorf("%w %q, expected one of: %s", ErrUnknownStatus, s, strings.Join(names, ", "))
}

func (s OrderStatus) Key() string {
	return orderStatusKeys[s]
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusKeys[s]
	return ok
}

const OrderDateLayout = "2006-01-02"

// Order is the document submitted to the order store at checkout.
type Order struct {
	ID              string      `json:"id,omitempty"`
	OrderNumber     string      `json:"order_number"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	DeliveryAddress string      `json:"delivery_address"`
	RestaurantID    string      `json:"restaurant"`
	Items           []string    `json:"items_ordered"` // menu item ids
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	OrderDate       string      `json:"order_date,omitempty"`
	CreatedAt       time.Time   `json:"created_at,omitempty"`
}

// Validate reports every missing or malformed required field.
func (o *Order) Validate() error {
	var problems []string
	if strings.TrimSpace(o.OrderNumber) == "" {
		problems = append(problems, "order_number is required")
	}
	if strings.TrimSpace(o.CustomerName) == "" {
		problems = append(problems, "customer_name is required")
	}
	if strings.TrimSpace(o.DeliveryAddress) == "" {
		problems = append(problems, "delivery_address is required")
	}
	if strings.TrimSpace(o.RestaurantID) == "" {
		problems = append(problems, "restaurant is required")
	}
	if o.Items == nil {
		problems = append(problems, "items_ordered must be an array")
	}
	if !o.Status.Valid() {
		problems = append(problems, fmt.Sprintf("status %q is not a known order status", o.Status))
	}
	if o.OrderDate != "" {
		if _, err := time.Parse(OrderDateLayout, o.OrderDate); err != nil {
			problems = append(problems, "order_date must be formatted YYYY-MM-DD")
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOrder, strings.Join(problems, "; "))
	}
	return nil
}

// DecodeOrderRequest parses a raw submission document. A non-numeric
// total_amount or a non-array items_ordered is rejected here, before Validate.
func DecodeOrderRequest(data []byte) (*Order, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrInvalidOrder)
	}
	raw, ok := doc["total_amount"]
	var amount float64
	if !ok || json.Unmarshal(raw, &amount) != nil {
		return nil, fmt.Errorf("%w: total_amount must be a number", ErrInvalidOrder)
	}
	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderMetrics summarises a set of orders for the CLI listing.
type OrderMetrics struct {
	TotalOrders   int
	TotalRevenue  float64
	AvgOrderValue float64
	ByStatus      map[OrderStatus]int
	PopularItems  map[string]int // menu item id -> times ordered
}

func ComputeOrderMetrics(orders []*Order) OrderMetrics {
	m := OrderMetrics{
		ByStatus:     make(map[OrderStatus]int),
		PopularItems: make(map[string]int),
	}
	for _, o := range orders {
		m.TotalOrders++
		m.TotalRevenue += o.TotalAmount
		m.ByStatus[o.Status]++
		for _, id := range o.Items {
			m.PopularItems[id]++
		}
	}
	if m.TotalOrders > 0 {
		m.AvgOrderValue = m.TotalRevenue / float64(m.TotalOrders)
	}
	return m
}

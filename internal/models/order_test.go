package models

import (
	"errors"
	"strings"
	"testing"
)

func validOrder() Order {
	return Order{
		OrderNumber:     "#123456",
		CustomerName:    "Ada",
		DeliveryAddress: "1 Main St",
		RestaurantID:    "r1",
		Items:           []string{"m1"},
		TotalAmount:     12.5,
		Status:          OrderStatusPlaced,
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Order)
		wantMsg string
	}{
		{name: "valid", mutate: func(o *Order) {}},
		{name: "empty items array is valid", mutate: func(o *Order) { o.Items = []string{} }},
		{name: "missing number", mutate: func(o *Order) { o.OrderNumber = " " }, wantMsg: "order_number"},
		{name: "missing customer", mutate: func(o *Order) { o.CustomerName = "" }, wantMsg: "customer_name"},
		{name: "missing address", mutate: func(o *Order) { o.DeliveryAddress = "" }, wantMsg: "delivery_address"},
		{name: "missing restaurant", mutate: func(o *Order) { o.RestaurantID = "" }, wantMsg: "restaurant"},
		{name: "nil items", mutate: func(o *Order) { o.Items = nil }, wantMsg: "items_ordered"},
		{name: "bad status", mutate: func(o *Order) { o.Status = "Lost" }, wantMsg: "status"},
		{name: "bad date", mutate: func(o *Order) { o.OrderDate = "yesterday" }, wantMsg: "order_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidOrder) || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Validate() = %v, want ErrInvalidOrder mentioning %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDecodeOrderRequest(t *testing.T) {
	valid := `{"order_number":"#1","customer_name":"Ada","delivery_address":"x","restaurant":"r1","items_ordered":["a"],"total_amount":10,"status":"Order Placed"}`
	if o, err := DecodeOrderRequest([]byte(valid)); err != nil || o.TotalAmount != 10 {
		t.Fatalf("DecodeOrderRequest(valid) = %+v, %v", o, err)
	}

	invalid := map[string]string{
		"not an object":    `[]`,
		"string total":     strings.Replace(valid, `"total_amount":10`, `"total_amount":"10"`, 1),
		"missing total":    strings.Replace(valid, `,"total_amount":10`, ``, 1),
		"items not array":  strings.Replace(valid, `["a"]`, `"a"`, 1),
		"missing items":    strings.Replace(valid, `"items_ordered":["a"],`, ``, 1),
		"missing customer": strings.Replace(valid, `"Ada"`, `""`, 1),
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeOrderRequest([]byte(body)); !errors.Is(err, ErrInvalidOrder) {
				t.Fatalf("err = %v, want ErrInvalidOrder", err)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		got, err := ParseOrderStatus(string(status))
		if err != nil || got != status {
			t.Errorf("ParseOrderStatus(%q) = %q, %v", status, got, err)
		}
		got, err = ParseOrderStatus(status.Key())
		if err != nil || got != status {
			t.Errorf("ParseOrderStatus(%q) = %q, %v", status.Key(), got, err)
		}
	}
	if _, err := ParseOrderStatus("Cancelled"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("ParseOrderStatus(Cancelled) error = %v", err)
	}
	if OrderStatusReady.Key() != "ready-for-pickup" {
		t.Errorf("Key() = %q", OrderStatusReady.Key())
	}
}

func TestComputeOrderMetrics(t *testing.T) {
	a, b := validOrder(), validOrder()
	b.TotalAmount = 7.5
	b.Items = []string{"m1", "m2"}
	b.Status = OrderStatusDelivered

	m := ComputeOrderMetrics([]*Order{&a, &b})
	if m.TotalOrders != 2 || m.TotalRevenue != 20 || m.AvgOrderValue != 10 {
		t.Fatalf("metrics = %+v", m)
	}
	if m.PopularItems["m1"] != 2 || m.ByStatus[OrderStatusDelivered] != 1 {
		t.Fatalf("metrics = %+v", m)
	}
}

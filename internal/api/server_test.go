package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/foodcart/internal/cart"
	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories/memory"
	"github.com/chrisdamba/foodcart/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server *Server
	router *gin.Engine
	store  *cart.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	catalog := memory.NewCatalog()
	restaurants := []*models.Restaurant{
		{ID: "r1", Slug: "roma", Name: "Roma", Cuisine: models.CuisineItalian, DeliveryFee: 2},
		{ID: "r2", Slug: "delhi", Name: "Delhi", Cuisine: models.CuisineIndian, DeliveryFee: 3},
	}
	items := []*models.MenuItem{
		{ID: "m1", Name: "Tiramisu", Price: 6, Available: true, Category: models.CategoryDesserts, Restaurant: models.RestaurantReference("r1")},
		{ID: "m2", Name: "Lasagna", Price: 12, Available: true, Category: models.CategoryEntrees, Restaurant: models.RestaurantReference("r1")},
		{ID: "m3", Name: "Lassi", Price: 3, Available: true, Category: models.CategoryBeverages, Restaurant: models.RestaurantReference("r2")},
		{ID: "m4", Name: "Truffle Risotto", Price: 30, Available: false, Category: models.CategoryEntrees, Restaurant: models.RestaurantReference("r1")},
	}
	if err := catalog.Restaurants().BulkCreate(ctx, restaurants); err != nil {
		t.Fatal(err)
	}
	if err := catalog.MenuItems().BulkCreate(ctx, items); err != nil {
		t.Fatal(err)
	}

	store := cart.NewStore(storage.NewMemoryStore(), cart.WithLogger(logger))
	svc := checkout.NewService(store, memory.NewOrderRepository(), nil, logger)
	server := NewServer(catalog.Restaurants(), catalog.MenuItems(), store, svc, logger)
	return &fixture{server: server, router: server.Router(), store: store}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %s: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	if w := f.do(t, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/restaurants", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[[]models.Restaurant](t, w); len(got) != 2 || got[0].Name != "Delhi" {
		t.Fatalf("restaurants = %+v", got)
	}

	w = f.do(t, http.MethodGet, "/api/restaurants?cuisine="+models.CuisineItalian, "")
	if got := decode[[]models.Restaurant](t, w); len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("italian restaurants = %+v", got)
	}

	w = f.do(t, http.MethodGet, "/api/restaurants?cuisine=Martian", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty filter body = %s", w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/restaurants/roma", "")
	if got := decode[models.Restaurant](t, w); got.ID != "r1" {
		t.Fatalf("restaurant by slug = %+v", got)
	}

	if w := f.do(t, http.MethodGet, "/api/restaurants/nowhere", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing restaurant status = %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/restaurants/r1/menu?category="+models.CategoryEntrees, "")
	menu := decode[[]models.MenuItem](t, w)
	if len(menu) != 2 || menu[0].Name != "Lasagna" {
		t.Fatalf("menu = %+v", menu)
	}
	if r, ok := menu[0].OwningRestaurant(); !ok || r.ID != "r1" {
		t.Fatalf("menu item restaurant not embedded: %+v", menu[0].Restaurant)
	}
}

func TestCartRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"m2","quantity":2,"notes":"extra cheese"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", w.Code, w.Body.String())
	}
	got := decode[models.Cart](t, w)
	if got.Total != 26 || got.Restaurant == nil || got.Restaurant.ID != "r1" {
		t.Fatalf("cart = %+v", got)
	}

	// Quantity is clamped to one.
	f.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"m1","quantity":-4}`)
	if w := f.do(t, http.MethodGet, "/api/cart/count", ""); strings.TrimSpace(w.Body.String()) != `{"count":3}` {
		t.Fatalf("count = %s", w.Body.String())
	}

	w = f.do(t, http.MethodPatch, "/api/cart/items/m2", `{"quantity":5}`)
	if got := decode[models.Cart](t, w); got.QuantityOf("m2") != 5 {
		t.Fatalf("after update = %+v", got)
	}

	w = f.do(t, http.MethodDelete, "/api/cart/items/m1", "")
	if got := decode[models.Cart](t, w); got.HasItem("m1") || got.Subtotal != 60 {
		t.Fatalf("after remove = %+v", got)
	}

	// Switching restaurants resets the cart.
	w = f.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"m3"}`)
	got = decode[models.Cart](t, w)
	if diff := cmp.Diff([]string{"m3"}, got.ItemIDs()); diff != "" || got.Restaurant.ID != "r2" {
		t.Fatalf("after switch (-want +got):\n%s restaurant=%+v", diff, got.Restaurant)
	}

	w = f.do(t, http.MethodDelete, "/api/cart", "")
	if got := decode[models.Cart](t, w); !got.IsEmpty() || got.Total != 0 {
		t.Fatalf("after clear = %+v", got)
	}
}

func TestCartRouteErrors(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing item id", http.MethodPost, "/api/cart/items", `{"quantity":1}`, http.StatusBadRequest},
		{"unknown item", http.MethodPost, "/api/cart/items", `{"menu_item_id":"nope"}`, http.StatusNotFound},
		{"unavailable item", http.MethodPost, "/api/cart/items", `{"menu_item_id":"m4"}`, http.StatusConflict},
		{"update without quantity", http.MethodPatch, "/api/cart/items/m1", `{}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/cart/items", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, tc.method, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
			if resp := decode[ErrorResponse](t, w); resp.Error == "" {
				t.Fatalf("missing error code: %s", w.Body.String())
			}
		})
	}
	if !f.store.Cart(context.Background()).IsEmpty() {
		t.Fatal("failed requests changed the cart")
	}
}

func TestCheckoutAndOrderRoutes(t *testing.T) {
	f := newFixture(t)
	customer := `{"customer_name":"Ada","customer_phone":"555-0100","delivery_address":"1 Loop St"}`

	if w := f.do(t, http.MethodPost, "/api/checkout", customer); w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart checkout status = %d", w.Code)
	}

	f.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"m1","quantity":2}`)
	w := f.do(t, http.MethodPost, "/api/checkout", customer)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d: %s", w.Code, w.Body.String())
	}
	order := decode[models.Order](t, w)
	if order.TotalAmount != 14 || order.Status != models.OrderStatusPlaced || !strings.HasPrefix(order.OrderNumber, "#") {
		t.Fatalf("order = %+v", order)
	}
	if !f.store.Cart(context.Background()).IsEmpty() {
		t.Fatal("cart not cleared by checkout")
	}

	number := strings.TrimPrefix(order.OrderNumber, "#")
	w = f.do(t, http.MethodGet, "/api/orders/"+number, "")
	if got := decode[models.Order](t, w); got.OrderNumber != order.OrderNumber {
		t.Fatalf("order lookup = %+v", got)
	}

	w = f.do(t, http.MethodPatch, "/api/orders/"+number+"/status", `{"status":"preparing"}`)
	if got := decode[models.Order](t, w); got.Status != models.OrderStatusPreparing {
		t.Fatalf("status update = %+v", got)
	}
	if w := f.do(t, http.MethodPatch, "/api/orders/"+number+"/status", `{"status":"Lost"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status code = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/orders/999999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing order code = %d", w.Code)
	}
}

func TestSubmitOrder(t *testing.T) {
	f := newFixture(t)

	valid := `{"order_number":"#424242","customer_name":"Grace","delivery_address":"2 Cobol Rd","restaurant":"r2","items_ordered":["m3"],"total_amount":6,"status":"Order Placed","order_date":"2026-10-16"}`
	w := f.do(t, http.MethodPost, "/api/orders", valid)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode[models.Order](t, w); got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("order = %+v", got)
	}

	invalid := []string{
		`not json`,
		`{"order_number":"#1","customer_name":"Grace","delivery_address":"x","restaurant":"r2","items_ordered":[],"total_amount":"6","status":"Order Placed"}`,
		`{"order_number":"#2","customer_name":"","delivery_address":"x","restaurant":"r2","items_ordered":[],"total_amount":6,"status":"Order Placed"}`,
		`{"order_number":"#3","customer_name":"Grace","delivery_address":"x","restaurant":"r2","items_ordered":[],"total_amount":6,"status":"Lost"}`,
	}
	for _, body := range invalid {
		if w := f.do(t, http.MethodPost, "/api/orders", body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, w.Code)
		}
	}

	w = f.do(t, http.MethodGet, "/api/orders", "")
	if got := decode[[]models.Order](t, w); len(got) != 1 || got[0].OrderNumber != "#424242" {
		t.Fatalf("orders = %+v", got)
	}
}

func TestCartEventsStream(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/cart/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}

	events := bufio.NewReader(resp.Body)
	readEvent := func() models.Cart {
		t.Helper()
		var name string
		var data []byte
		for {
			line, err := events.ReadBytes('\n')
			if err != nil {
				t.Fatalf("reading stream: %v", err)
			}
			line = bytes.TrimRight(line, "\r\n")
			switch {
			case bytes.HasPrefix(line, []byte("event:")):
				name = string(bytes.TrimSpace(line[len("event:"):]))
			case bytes.HasPrefix(line, []byte("data:")):
				data = bytes.TrimSpace(line[len("data:"):])
			case len(line) == 0 && name != "":
				if name != cartUpdatedEvent {
					t.Fatalf("event = %q", name)
				}
				var c models.Cart
				if err := json.Unmarshal(data, &c); err != nil {
					t.Fatalf("decoding %s: %v", data, err)
				}
				return c
			}
		}
	}

	if initial := readEvent(); !initial.IsEmpty() {
		t.Fatalf("initial cart = %+v", initial)
	}

	item := models.MenuItem{ID: "m1", Price: 6, Restaurant: models.ResolvedRestaurant(models.Restaurant{ID: "r1", DeliveryFee: 2})}
	deadline := time.Now().Add(3 * time.Second)
	for f.server.cart.Notifier().Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	f.store.AddToCart(context.Background(), item, 1, "")

	if updated := readEvent(); updated.ItemCount() != 1 || updated.Total != 8 {
		t.Fatalf("updated cart = %+v", updated)
	}
}

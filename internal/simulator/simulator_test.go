package simulator

import (
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/chrisdamba/foodcart/internal/factories"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/publishers"
	"github.com/chrisdamba/foodcart/internal/repositories/memory"
	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *models.Config {
	return &models.Config{
		Seed:                   11,
		InitialRestaurants:     3,
		MenuItemsPerRestaurant: 6,
		MaxDeliveryFee:         5,
		OrdersPerDay:           120,
		PeakHourFactor:         1.5,
		WeekendFactor:          1.2,
	}
}

func seededCatalog(t *testing.T, cfg *models.Config) *memory.Catalog {
	t.Helper()
	ctx := context.Background()
	catalog := memory.NewCatalog()
	generated := factories.GenerateCatalog(cfg, true, nil)
	for _, item := range generated.MenuItems {
		item.Available = true
	}
	if err := catalog.Restaurants().BulkCreate(ctx, generated.Restaurants); err != nil {
		t.Fatal(err)
	}
	if err := catalog.MenuItems().BulkCreate(ctx, generated.MenuItems); err != nil {
		t.Fatal(err)
	}
	return catalog
}

func TestRunBuildsOrderHistory(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	catalog := seededCatalog(t, cfg)
	orders := memory.NewOrderRepository()

	start := time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC) // a Friday
	end := start.Add(48 * time.Hour)
	hours := 0
	sim := NewSimulator(cfg, catalog.Restaurants(), catalog.MenuItems(), orders, publishers.Noop{}, quietLogger())
	stats, err := sim.Run(ctx, start, end, func(time.Time) { hours++ })
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if hours != 48 {
		t.Fatalf("progress called %d times, want 48", hours)
	}
	if stats.OrdersPlaced < 50 || stats.Failures != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	all, err := orders.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != stats.OrdersPlaced {
		t.Fatalf("stored %d orders, stats say %d", len(all), stats.OrdersPlaced)
	}
	for _, o := range all {
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end.Add(time.Minute)) {
			t.Fatalf("order %s created at %s outside the simulated window", o.OrderNumber, o.CreatedAt)
		}
		if o.OrderDate != o.CreatedAt.Format(models.OrderDateLayout) {
			t.Fatalf("order %s date %s does not match %s", o.OrderNumber, o.OrderDate, o.CreatedAt)
		}
		if err := o.Validate(); err != nil {
			t.Fatalf("invalid simulated order: %v", err)
		}
		// Nothing takes anywhere near three hours from placement to door.
		if o.CreatedAt.Before(end.Add(-3*time.Hour)) && o.Status != models.OrderStatusDelivered {
			t.Fatalf("order %s placed at %s still %q", o.OrderNumber, o.CreatedAt, o.Status)
		}
	}
	if stats.OrdersDelivered == 0 || stats.Revenue <= 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRunNeedsACatalog(t *testing.T) {
	catalog := memory.NewCatalog()
	sim := NewSimulator(testConfig(), catalog.Restaurants(), catalog.MenuItems(), memory.NewOrderRepository(), nil, quietLogger())
	now := time.Now()
	if _, err := sim.Run(context.Background(), now, now.Add(time.Hour), nil); err == nil {
		t.Fatal("expected an error for an empty catalog")
	}
}

func TestOrdersPerMinutePeaks(t *testing.T) {
	cfg := testConfig()
	tuesday := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
	lunch := ordersPerMinute(cfg, tuesday.Add(12*time.Hour))
	small := ordersPerMinute(cfg, tuesday.Add(4*time.Hour))
	if lunch <= small*10 {
		t.Fatalf("lunch rate %v not well above 4am rate %v", lunch, small)
	}
	friday := tuesday.AddDate(0, 0, 3)
	if ordersPerMinute(cfg, friday.Add(19*time.Hour)) <= ordersPerMinute(cfg, tuesday.Add(19*time.Hour))/cfg.PeakHourFactor {
		t.Fatal("friday dinner should outpace an off-peak tuesday dinner")
	}
}

func TestSampleCountMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	total := 0
	for i := 0; i < 10000; i++ {
		total += sampleCount(rng, 0.25)
	}
	if total < 2200 || total > 2800 {
		t.Fatalf("sampled %d events, want about 2500", total)
	}
}

func TestEventQueueOrder(t *testing.T) {
	var q eventQueue
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	q.enqueue(&event{Time: base.Add(3 * time.Minute), OrderNumber: "#3"})
	q.enqueue(&event{Time: base.Add(time.Minute), OrderNumber: "#1"})
	q.enqueue(&event{Time: base.Add(2 * time.Minute), OrderNumber: "#2"})

	if e := q.dequeueDue(base); e != nil {
		t.Fatalf("dequeued %+v before it was due", e)
	}
	var got []string
	for e := q.dequeueDue(base.Add(2 * time.Minute)); e != nil; e = q.dequeueDue(base.Add(2 * time.Minute)) {
		got = append(got, e.OrderNumber)
	}
	if len(got) != 2 || got[0] != "#1" || got[1] != "#2" || q.Len() != 1 {
		t.Fatalf("dequeued %v, %d left", got, q.Len())
	}
}

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chrisdamba/foodcart/internal/models"
)

func TestPrintCart(t *testing.T) {
	var out bytes.Buffer
	printCart(&out, models.EmptyCart())
	if got := out.String(); got != "Your cart is empty\n" {
		t.Fatalf("empty cart output = %q", got)
	}

	roma := models.Restaurant{ID: "r1", Name: "Roma", DeliveryFee: 2.5}
	c := models.Cart{
		Restaurant: &roma,
		Lines: []models.CartLine{
			{ID: "m1", Item: models.MenuItem{ID: "m1", Name: "Lasagna", Price: 12}, Quantity: 2, Notes: "no basil"},
		},
	}.Recalculate()

	out.Reset()
	printCart(&out, c)
	for _, want := range []string{"Ordering from Roma", "Lasagna", "24.00", "no basil", "Total: 26.50"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestFlagKey(t *testing.T) {
	if got := flagKey("menu-items-per-restaurant"); got != "menu_items_per_restaurant" {
		t.Fatalf("flagKey() = %q", got)
	}
}

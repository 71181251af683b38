package models

import (
	"strings"
	"testing"
)

func TestDecodeCartReportsDroppedFields(t *testing.T) {
	doc := `{"lines":[{"item":{"id":"a","price":2},"quantity":-1},{"notes":"orphan"}],"restaurant":{"id":"r","delivery_fee":1}}`
	cart, err := DecodeCart([]byte(doc))
	if err == nil {
		t.Fatal("expected the dropped fields to be reported")
	}
	if !strings.Contains(err.Error(), "lines[0]") || !strings.Contains(err.Error(), "lines[1]") {
		t.Errorf("err = %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].ID != "a" || cart.Lines[0].Quantity != 1 {
		t.Fatalf("lines = %+v", cart.Lines)
	}
	if cart.Total != 3 {
		t.Fatalf("total = %v, want 3", cart.Total)
	}
}

func TestDecodeCartKeepsLegacyLineIDs(t *testing.T) {
	doc := `{"lines":[{"id":"cart-123-abc","item":{"id":"a","price":1},"quantity":2}]}`
	cart, err := DecodeCart([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cart.Lines[0].ID != "cart-123-abc" || cart.ItemIndex("a") != 0 || cart.LineIndex("cart-123-abc") != 0 {
		t.Fatalf("lines = %+v", cart.Lines)
	}
}

func TestCartQueries(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{ID: "a", Item: MenuItem{ID: "a", Price: 1}, Quantity: 2},
		{ID: "b", Item: MenuItem{ID: "b", Price: 4}, Quantity: 1},
	}}.Recalculate()

	if cart.ItemCount() != 3 || cart.Subtotal != 6 || cart.Total != 6 {
		t.Fatalf("cart = %+v", cart)
	}
	if got := cart.ItemIDs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("ItemIDs() = %v", got)
	}
	if cart.QuantityOf("b") != 1 || cart.HasItem("c") {
		t.Fatal("item lookup mismatch")
	}
}

func TestDecodeCartKeepsWellFormedFields(t *testing.T) {
	doc := `{"lines":[{"item":{"id":"a","name":"Lassi","price":"3","restaurant":{"id":"r","name":"Delhi","delivery_fee":"2"}},"quantity":2}],
		"restaurant":{"id":"r","name":"Delhi","delivery_fee":"2"}}`
	cart, err := DecodeCart([]byte(doc))
	if err == nil {
		t.Fatal("expected the mistyped fields to be reported")
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Item.Name != "Lassi" || cart.Lines[0].Quantity != 2 {
		t.Fatalf("lines = %+v", cart.Lines)
	}
	if owner, ok := cart.Lines[0].Item.OwningRestaurant(); !ok || owner.Name != "Delhi" {
		t.Fatalf("item restaurant = %+v, %v", owner, ok)
	}
	if cart.Restaurant == nil || cart.Restaurant.Name != "Delhi" || cart.Total != 0 {
		t.Fatalf("cart = %+v", cart)
	}
}

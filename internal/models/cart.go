package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

type CartLine struct {
	ID       string   `json:"id"`
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
}

// Cart is the client-local basket. Subtotal, DeliveryFee and Total are derived
// by Recalculate and are never set independently.
type Cart struct {
	Lines       []CartLine  `json:"lines"`
	Restaurant  *Restaurant `json:"restaurant,omitempty"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	Total       float64     `json:"total"`
}

func EmptyCart() Cart {
	return Cart{Lines: []CartLine{}}
}

// Recalculate returns a copy of the cart with its derived totals recomputed.
func (c Cart) Recalculate() Cart {
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	subtotal := 0.0
	for _, line := range c.Lines {
		subtotal += line.Item.Price * float64(line.Quantity)
	}
	deliveryFee := 0.0
	if c.Restaurant != nil {
		deliveryFee = c.Restaurant.DeliveryFee
	}
	c.Subtotal = subtotal
	c.DeliveryFee = deliveryFee
	c.Total = subtotal + deliveryFee
	return c
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of quantities across lines, not the number of lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c Cart) LineIndex(lineID string) int {
	for i, line := range c.Lines {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

func (c Cart) ItemIndex(menuItemID string) int {
	for i, line := range c.Lines {
		if line.Item.ID == menuItemID {
			return i
		}
	}
	return -1
}

func (c Cart) HasItem(menuItemID string) bool {
	return c.QuantityOf(menuItemID) > 0
}

func (c Cart) QuantityOf(menuItemID string) int {
	for _, line := range c.Lines {
		if line.Item.ID == menuItemID {
			return line.Quantity
		}
	}
	return 0
}

// ItemIDs lists the menu item ids of the cart lines in order.
func (c Cart) ItemIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.Item.ID)
	}
	return ids
}

// DecodeCart parses a persisted cart document. Malformed fields fall back to
// their defaults one by one; the returned cart is always usable and has its
// totals recomputed. The error, if any, describes everything that was dropped.
func DecodeCart(data []byte) (Cart, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return EmptyCart(), fmt.Errorf("cart document is not an object: %w", err)
	}

	var errs []error
	cart := EmptyCart()

	if raw, ok := doc["lines"]; ok {
		var rawLines []json.RawMessage
		if err := json.Unmarshal(raw, &rawLines); err != nil {
			errs = append(errs, fmt.Errorf("lines: %w", err))
		}
		for i, rawLine := range rawLines {
			line, err := decodeLine(rawLine)
			if err != nil {
				errs = append(errs, fmt.Errorf("lines[%d]: %w", i, err))
				if line.ID == "" {
					continue
				}
			}
			cart.Lines = append(cart.Lines, line)
		}
	}

	if raw, ok := doc["restaurant"]; ok && string(raw) != "null" {
		restaurant, err := decodeRestaurant(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("restaurant: %w", err))
		}
		if restaurant.ID != "" {
			cart.Restaurant = &restaurant
		}
	}
	// The lines all belong to one restaurant, so a lost restaurant is
	// recovered from the first line that embeds it.
	if cart.Restaurant == nil {
		for _, line := range cart.Lines {
			if restaurant, ok := line.Item.OwningRestaurant(); ok {
				cart.Restaurant = restaurant
				break
			}
		}
	}

	return cart.Recalculate(), errors.Join(errs...)
}

// decodeLine returns a line with an empty ID when it cannot be identified.
func decodeLine(data []byte) (CartLine, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return CartLine{}, err
	}

	var errs []error
	line := CartLine{Quantity: 1}

	if raw, ok := doc["item"]; ok {
		item, err := decodeItem(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("item: %w", err))
		}
		line.Item = item
	}
	if line.Item.ID == "" {
		return CartLine{}, errors.Join(append(errs, errors.New("line has no menu item id"))...)
	}

	line.ID = line.Item.ID
	if raw, ok := doc["id"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			errs = append(errs, fmt.Errorf("id: %w", err))
		} else if id != "" {
			line.ID = id
		}
	}
	if raw, ok := doc["quantity"]; ok {
		var quantity int
		if err := json.Unmarshal(raw, &quantity); err != nil || quantity < 1 {
			errs = append(errs, fmt.Errorf("quantity %s is not a positive integer", raw))
		} else {
			line.Quantity = quantity
		}
	}
	if raw, ok := doc["notes"]; ok {
		if err := json.Unmarshal(raw, &line.Notes); err != nil {
			errs = append(errs, fmt.Errorf("notes: %w", err))
			line.Notes = ""
		}
	}
	return line, errors.Join(errs...)
}

// decodeItem keeps every well-formed field of a stored menu item. An embedded
// restaurant is decoded the same way.
func decodeItem(data []byte) (MenuItem, error) {
	var item MenuItem
	var errs []error
	restaurant, err := decodeFields(data, &item, "restaurant")
	if err != nil {
		errs = append(errs, err)
	}
	if restaurant != nil && string(restaurant) != "null" {
		if r, err := decodeRestaurant(restaurant); err == nil || r.ID != "" {
			if err != nil {
				errs = append(errs, fmt.Errorf("restaurant: %w", err))
			}
			item.Restaurant = ResolvedRestaurant(r)
		} else {
			var ref RestaurantRef
			if err := json.Unmarshal(restaurant, &ref); err != nil {
				errs = append(errs, fmt.Errorf("restaurant: %w", err))
			} else if ref.ID() != "" {
				item.Restaurant = &ref
			}
		}
	}
	return item, errors.Join(errs...)
}

func decodeRestaurant(data []byte) (Restaurant, error) {
	var restaurant Restaurant
	_, err := decodeFields(data, &restaurant)
	return restaurant, err
}

// decodeFields unmarshals the JSON object data into v one member at a time,
// so a malformed member only loses its own field. Members named in skip are
// not decoded; the first of them is returned raw.
func decodeFields(data []byte, v any, skip ...string) (json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var skipped json.RawMessage
	var errs []error
	for _, key := range keys {
		if slices.Contains(skip, key) {
			if skipped == nil {
				skipped = doc[key]
			}
			continue
		}
		member, err := json.Marshal(map[string]json.RawMessage{key: doc[key]})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		if err := json.Unmarshal(member, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return skipped, errors.Join(errs...)
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type MenuItem struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Available   bool           `json:"available"`
	Category    string         `json:"category,omitempty"`
	Restaurant  *RestaurantRef `json:"restaurant,omitempty"`
}

// RestaurantRef is the owning restaurant of a menu item. It holds either an
// embedded Restaurant (resolved) or only the restaurant's id (reference).
// On the wire a resolved ref is a JSON object and a reference is a JSON string.
type RestaurantRef struct {
	resolved *Restaurant
	id       string
}

func ResolvedRestaurant(r Restaurant) *RestaurantRef {
	return &RestaurantRef{resolved: &r, id: r.ID}
}

func RestaurantReference(id string) *RestaurantRef {
	return &RestaurantRef{id: id}
}

// Resolved returns the embedded restaurant. A ref without an embedded
// restaurant, or whose restaurant has no id, does not resolve.
func (r *RestaurantRef) Resolved() (*Restaurant, bool) {
	if r == nil || r.resolved == nil || r.resolved.ID == "" {
		return nil, false
	}
	restaurant := *r.resolved
	return &restaurant, true
}

func (r *RestaurantRef) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

func (r *RestaurantRef) Equal(other *RestaurantRef) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.id != other.id || (r.resolved == nil) != (other.resolved == nil) {
		return false
	}
	return r.resolved == nil || *r.resolved == *other.resolved
}

func (r RestaurantRef) MarshalJSON() ([]byte, error) {
	if r.resolved != nil {
		return json.Marshal(r.resolved)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *RestaurantRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RestaurantRef{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.id)
	case '{':
		var restaurant Restaurant
		if err := json.Unmarshal(data, &restaurant); err != nil {
			return fmt.Errorf("decoding embedded restaurant: %w", err)
		}
		r.resolved = &restaurant
		r.id = restaurant.ID
		return nil
	default:
		return fmt.Errorf("restaurant must be an object or an id string, got %s", data)
	}
}

// OwningRestaurant returns the item's restaurant when it is embedded.
func (m MenuItem) OwningRestaurant() (*Restaurant, bool) {
	return m.Restaurant.Resolved()
}

package models

type Restaurant struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Cuisine      string  `json:"cuisine,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	DeliveryFee  float64 `json:"delivery_fee"`
	DeliveryTime string  `json:"delivery_time,omitempty"` // display string, e.g. "25-35 min"
	Address      string  `json:"address,omitempty"`
}

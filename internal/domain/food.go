package domain

// FoodItem is a menu entry owned by the external catalog. Extras maps the
// name of an optional paid addition to its price in cents; names are unique
// and matched case-sensitively.
type FoodItem struct {
	ID             string           `json:"id"`
	RestaurantID   string           `json:"restaurant_id"`
	Name           string           `json:"name"`
	BasePriceCents int64            `json:"base_price_cents"`
	Extras         map[string]int64 `json:"extras"`
}

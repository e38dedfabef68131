package domain

import "time"

// OrderPlacedEvent is published after an accepted order has been persisted.
type OrderPlacedEvent struct {
	OrderID      string     `json:"order_id"`
	CustomerID   string     `json:"customer_id"`
	RestaurantID string     `json:"restaurant_id"`
	Items        []LineItem `json:"items"`
	TotalCents   int64      `json:"total_cents"`
	Timestamp    time.Time  `json:"timestamp"`
}

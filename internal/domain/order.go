package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "placed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// LineItem is one priced entry within an order: a food item, the extras
// applied to it, and the price multiplied by the requested quantity.
// CalculatedCents is always UnitPriceCents * Quantity.
type LineItem struct {
	FoodItemID      string   `json:"food_item_id"`
	Description     string   `json:"description"`
	Extras          []string `json:"extras,omitempty"`
	Quantity        int      `json:"quantity"`
	UnitPriceCents  int64    `json:"unit_price_cents"`
	CalculatedCents int64    `json:"calculated_cents"`
}

// Order is the fully priced aggregate produced by the assembler. TotalCents
// always equals the sum of the line items' CalculatedCents plus ShippingCents,
// and Items is never empty. The order is immutable once assembled; the
// persistence layer owns it afterwards.
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id"`
	RestaurantID    string      `json:"restaurant_id"`
	DeliveryStaffID string      `json:"delivery_staff_id,omitempty"`
	AddressID       string      `json:"address_id"`
	Items           []LineItem  `json:"items"`
	ShippingCents   int64       `json:"shipping_cents"`
	TotalCents      int64       `json:"total_cents"`
	Status          OrderStatus `json:"status"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

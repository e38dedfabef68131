package domain

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleDelivery   Role = "delivery"
	RoleAdmin      Role = "admin"
)

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Restaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// ShippingCents is the restaurant's delivery fee, applied when a
	// submission does not carry its own shipping price.
	ShippingCents int64 `json:"shipping_cents"`
}

type Address struct {
	ID         string `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

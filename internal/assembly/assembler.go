package assembly

import (
	"context"
	"fmt"
	"time"

	"github.com/mealflow/order-intake/internal/catalog"
	"github.com/mealflow/order-intake/internal/domain"
	"github.com/mealflow/order-intake/internal/payment"
	"github.com/mealflow/order-intake/internal/pricing"
)

// LineRequest is one requested entry of a submission: a food item, how many,
// and which extras to apply.
type LineRequest struct {
	FoodItemID string   `json:"food_item_id"`
	Quantity   int      `json:"quantity"`
	Extras     []string `json:"extras,omitempty"`
}

// Input carries everything the assembler needs to produce an order.
// ShippingCents below zero is treated as zero.
type Input struct {
	Customer      *domain.Customer
	Restaurant    *domain.Restaurant
	Address       *domain.Address
	Lines         []LineRequest
	Payment       *domain.PaymentRecord
	ShippingCents int64
	Notes         string
}

// Assembler turns submissions into priced, validated orders. It is stateless
// per call; the catalog is its only collaborator and the only potentially
// blocking dependency.
type Assembler struct {
	catalog catalog.Catalog
}

func New(c catalog.Catalog) *Assembler {
	return &Assembler{catalog: c}
}

// Assemble validates the input, prices every line through the catalog, and
// authorizes payment against the order total. Failures abort with the most
// specific error kind; no partial order is ever returned. Line items in the
// result keep the input order.
func (a *Assembler) Assemble(ctx context.Context, in Input) (*domain.Order, error) {
	if in.Customer == nil {
		return nil, domain.ErrMissingCustomer
	}
	if in.Restaurant == nil {
		return nil, domain.ErrMissingRestaurant
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if in.Payment == nil {
		return nil, domain.ErrPaymentRequired
	}

	authorizer, err := payment.ForMethod(in.Payment.Method)
	if err != nil {
		return nil, err
	}

	shipping := in.ShippingCents
	if shipping < 0 {
		shipping = 0
	}

	items := make([]domain.LineItem, 0, len(in.Lines))
	var itemsTotal int64
	for _, line := range in.Lines {
		item, err := a.buildLineItem(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		itemsTotal += item.CalculatedCents
	}

	total := itemsTotal + shipping

	if err := authorizer.Authorize(total, in.Payment); err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerID:    in.Customer.ID,
		RestaurantID:  in.Restaurant.ID,
		Items:         items,
		ShippingCents: shipping,
		TotalCents:    total,
		Status:        domain.OrderStatusPlaced,
		Notes:         in.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	if in.Address != nil {
		order.AddressID = in.Address.ID
	}
	return order, nil
}

func (a *Assembler) buildLineItem(ctx context.Context, line LineRequest) (domain.LineItem, error) {
	item, err := a.catalog.FoodItem(ctx, line.FoodItemID)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("look up food item: %w", err)
	}

	if !pricing.ValidateSelections(item, line.Extras) {
		return domain.LineItem{}, fmt.Errorf("%w: food item %q", domain.ErrInvalidExtras, item.Name)
	}

	pc, err := pricing.Compose(item, line.Extras)
	if err != nil {
		return domain.LineItem{}, err
	}

	quantity := line.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return domain.LineItem{
		FoodItemID:      item.ID,
		Description:     pc.Description,
		Extras:          pc.Extras,
		Quantity:        quantity,
		UnitPriceCents:  pc.UnitPriceCents,
		CalculatedCents: pc.UnitPriceCents * int64(quantity),
	}, nil
}

package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mealflow/order-intake/internal/domain"
)

// PricedComponent is the result of composing a food item with its selected
// extras: the per-unit price and the display description. The price is
// strictly additive over the base price, so it never decreases as extras
// are applied.
type PricedComponent struct {
	UnitPriceCents int64
	Description    string
	Extras         []string
}

// Compose folds the selected extra names over the item's extras price map.
// Blank names are skipped; a non-blank name absent from the map fails with
// domain.ErrUnknownExtra. The description is the item name followed by each
// applied extra in selection order, comma-joined. Pure function: same inputs
// always produce the same component.
func Compose(item *domain.FoodItem, selections []string) (PricedComponent, error) {
	if item == nil {
		return PricedComponent{}, errors.New("food item is required")
	}

	pc := PricedComponent{
		UnitPriceCents: item.BasePriceCents,
		Description:    item.Name,
	}

	for _, name := range selections {
		if strings.TrimSpace(name) == "" {
			continue
		}
		price, ok := item.Extras[name]
		if !ok {
			return PricedComponent{}, fmt.Errorf("%w: %q on %q", domain.ErrUnknownExtra, name, item.Name)
		}
		pc.UnitPriceCents += price
		pc.Description += ", " + name
		pc.Extras = append(pc.Extras, name)
	}

	return pc, nil
}

// ValidateSelections reports whether every non-blank selection exists in the
// item's extras map. An empty selection list is always valid. Callers use it
// to fail fast before building a line item.
func ValidateSelections(item *domain.FoodItem, selections []string) bool {
	if item == nil || len(selections) == 0 {
		return true
	}
	for _, name := range selections {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := item.Extras[name]; !ok {
			return false
		}
	}
	return true
}

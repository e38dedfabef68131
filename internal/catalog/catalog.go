package catalog

import (
	"context"
	"errors"

	"github.com/mealflow/order-intake/internal/domain"
)

// ErrNotFound is returned when a food item id is not in the catalog.
var ErrNotFound = errors.New("food item not found")

// Catalog looks up menu entries. The menu itself (creation, categories,
// pricing changes) is owned elsewhere; the intake pipeline only reads.
type Catalog interface {
	FoodItem(ctx context.Context, id string) (*domain.FoodItem, error)
}

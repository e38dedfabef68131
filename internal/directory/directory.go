package directory

import (
	"context"
	"errors"

	"github.com/mealflow/order-intake/internal/domain"
)

// ErrNotFound is returned when an entity id is unknown to the directory.
var ErrNotFound = errors.New("not found")

// Directory resolves the already-authenticated entities referenced by a
// submission. Credential checks and session handling live outside this
// module; the intake pipeline only looks entities up by id.
type Directory interface {
	Customer(ctx context.Context, id string) (*domain.Customer, error)
	Restaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	Address(ctx context.Context, id string) (*domain.Address, error)
}

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mealflow/order-intake/internal/domain"
)

// Postgres reads the menu from the food_items table. Extras are stored as a
// jsonb object mapping extra name to price in cents.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) FoodItem(ctx context.Context, id string) (*domain.FoodItem, error) {
	var (
		item   domain.FoodItem
		extras []byte
	)

	err := p.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, base_price_cents, extras
		FROM food_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.RestaurantID, &item.Name, &item.BasePriceCents, &extras)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &item.Extras); err != nil {
			return nil, fmt.Errorf("decode extras for food item %s: %w", id, err)
		}
	}

	return &item, nil
}

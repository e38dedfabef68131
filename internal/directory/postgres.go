package directory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mealflow/order-intake/internal/domain"
)

// Postgres resolves customers, restaurants, and addresses from the shared
// platform tables.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Customer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, role FROM users WHERE id = $1
	`, id).Scan(&c.ID, &c.Email, &c.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) Restaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	var r domain.Restaurant
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, shipping_cents FROM restaurants WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.ShippingCents)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &r, nil
}

func (p *Postgres) Address(ctx context.Context, id string) (*domain.Address, error) {
	var a domain.Address
	err := p.db.QueryRowContext(ctx, `
		SELECT id, street, city, postal_code FROM addresses WHERE id = $1
	`, id).Scan(&a.ID, &a.Street, &a.City, &a.PostalCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

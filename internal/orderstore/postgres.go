package orderstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mealflow/order-intake/internal/domain"
)

// Store persists accepted orders. It owns the order after Save returns; the
// intake pipeline never touches a persisted order again.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts the order and its line items in one transaction and assigns
// their identities. Payment details are not part of the order and are never
// written here.
func (s *Store) Save(ctx context.Context, order *domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()

	var staffID any
	if order.DeliveryStaffID != "" {
		staffID = order.DeliveryStaffID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, restaurant_id, delivery_staff_id, address_id,
		                    status, shipping_cents, total_cents, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, order.ID, order.CustomerID, order.RestaurantID, staffID, order.AddressID,
		order.Status, order.ShippingCents, order.TotalCents, order.Notes, order.CreatedAt)
	if err != nil {
		return err
	}

	for i, item := range order.Items {
		itemID := uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, food_item_id, description,
			                         extras, quantity, unit_price_cents, calculated_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, itemID, order.ID, i, item.FoodItemID, item.Description,
			pq.Array(item.Extras), item.Quantity, item.UnitPriceCents, item.CalculatedCents)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Order loads a persisted order with its line items in stored position order.
func (s *Store) Order(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}
	var staffID sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, restaurant_id, delivery_staff_id, address_id,
		       status, shipping_cents, total_cents, notes, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerID, &order.RestaurantID, &staffID, &order.AddressID,
		&order.Status, &order.ShippingCents, &order.TotalCents, &order.Notes, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	order.DeliveryStaffID = staffID.String

	rows, err := s.db.QueryContext(ctx, `
		SELECT food_item_id, description, extras, quantity, unit_price_cents, calculated_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.FoodItemID, &item.Description, pq.Array(&item.Extras),
			&item.Quantity, &item.UnitPriceCents, &item.CalculatedCents); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// CountByCustomer reports how many orders a customer has placed. Used by
// operational tooling, not by the submission path.
func (s *Store) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE customer_id = $1
	`, customerID).Scan(&n)
	return n, err
}

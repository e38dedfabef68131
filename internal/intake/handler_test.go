package intake

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mealflow/order-intake/internal/assembly"
	"github.com/mealflow/order-intake/internal/audit"
	"github.com/mealflow/order-intake/internal/catalog"
	"github.com/mealflow/order-intake/internal/directory"
	"github.com/mealflow/order-intake/internal/domain"
	"github.com/mealflow/order-intake/internal/gateway"
	"github.com/mealflow/order-intake/internal/ratelimit"
)

type memStore struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (s *memStore) Save(_ context.Context, order *domain.Order) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == "" {
		order.ID = "order-1"
	}
	s.orders = append(s.orders, order)
	return nil
}

type memPublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *memPublisher) Publish(_ context.Context, _ string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// failingDirectory simulates an unavailable backing store.
type failingDirectory struct{}

var errDirectoryDown = errors.New("directory unavailable")

func (failingDirectory) Customer(context.Context, string) (*domain.Customer, error) {
	return nil, errDirectoryDown
}

func (failingDirectory) Restaurant(context.Context, string) (*domain.Restaurant, error) {
	return nil, errDirectoryDown
}

func (failingDirectory) Address(context.Context, string) (*domain.Address, error) {
	return nil, errDirectoryDown
}

func newTestHandler(t *testing.T) (*Handler, *memStore, *memPublisher) {
	t.Helper()

	cat := catalog.NewMemory(domain.FoodItem{
		ID:             "burger",
		Name:           "ItemName",
		BasePriceCents: 1000,
		Extras:         map[string]int64{"Cheese": 150},
	})

	dir := directory.NewMemory()
	dir.AddCustomer(domain.Customer{ID: "cust-1", Email: "jane@example.com", Role: domain.RoleCustomer})
	dir.AddRestaurant(domain.Restaurant{ID: "rest-1", Name: "Grill House", ShippingCents: 500})
	dir.AddAddress(domain.Address{ID: "addr-1", Street: "1 Main St", City: "Lisbon"})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := gateway.New(assembly.New(cat), ratelimit.NewMemoryWindow(), audit.Noop{}, logger)

	store := &memStore{}
	producer := &memPublisher{}
	return NewHandler(gw, dir, store, producer, logger), store, producer
}

func validMessage() SubmissionMessage {
	return SubmissionMessage{
		RequestID:    "req-1",
		CustomerID:   "cust-1",
		RestaurantID: "rest-1",
		AddressID:    "addr-1",
		Lines: []assembly.LineRequest{
			{FoodItemID: "burger", Quantity: 2, Extras: []string{"Cheese"}},
		},
		Payment: &domain.PaymentRecord{Method: domain.PaymentCash},
	}
}

func marshal(t *testing.T, msg SubmissionMessage) []byte {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	return payload
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted submission is stored and published", func(t *testing.T) {
		handler, store, producer := newTestHandler(t)

		if err := handler.Handle(ctx, marshal(t, validMessage())); err != nil {
			t.Fatalf("Handle: %v", err)
		}

		if len(store.orders) != 1 {
			t.Fatalf("stored orders = %d, want 1", len(store.orders))
		}
		order := store.orders[0]

		// Unit 1150 * qty 2, plus the restaurant's shipping fallback.
		if want := int64(2*1150 + 500); order.TotalCents != want {
			t.Errorf("TotalCents = %d, want %d", order.TotalCents, want)
		}

		if len(producer.events) != 1 {
			t.Fatalf("published events = %d, want 1", len(producer.events))
		}
		event, ok := producer.events[0].(domain.OrderPlacedEvent)
		if !ok {
			t.Fatalf("published event type = %T", producer.events[0])
		}
		if event.OrderID != order.ID {
			t.Errorf("event OrderID = %q, want %q", event.OrderID, order.ID)
		}
		if event.TotalCents != order.TotalCents {
			t.Errorf("event TotalCents = %d, want %d", event.TotalCents, order.TotalCents)
		}
	})

	t.Run("explicit shipping overrides restaurant fee", func(t *testing.T) {
		handler, store, _ := newTestHandler(t)

		msg := validMessage()
		shipping := int64(0)
		msg.ShippingCents = &shipping

		if err := handler.Handle(ctx, marshal(t, msg)); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if want := int64(2 * 1150); store.orders[0].TotalCents != want {
			t.Errorf("TotalCents = %d, want %d", store.orders[0].TotalCents, want)
		}
	})

	t.Run("unknown customer is rejected without retry", func(t *testing.T) {
		handler, store, producer := newTestHandler(t)

		msg := validMessage()
		msg.CustomerID = "nobody"

		if err := handler.Handle(ctx, marshal(t, msg)); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(store.orders) != 0 || len(producer.events) != 0 {
			t.Error("rejected submission must not be stored or published")
		}
	})

	t.Run("rejected submission commits without side effects", func(t *testing.T) {
		handler, store, producer := newTestHandler(t)

		msg := validMessage()
		msg.Lines = nil

		if err := handler.Handle(ctx, marshal(t, msg)); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(store.orders) != 0 || len(producer.events) != 0 {
			t.Error("rejected submission must not be stored or published")
		}
	})

	t.Run("unknown food item is terminal", func(t *testing.T) {
		handler, store, producer := newTestHandler(t)

		msg := validMessage()
		msg.Lines[0].FoodItemID = "off-menu"

		if err := handler.Handle(ctx, marshal(t, msg)); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(store.orders) != 0 || len(producer.events) != 0 {
			t.Error("unknown food item must not be stored or published")
		}
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		handler, store, _ := newTestHandler(t)

		if err := handler.Handle(ctx, []byte("{not json")); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if len(store.orders) != 0 {
			t.Error("malformed payload must not produce an order")
		}
	})

	t.Run("directory failure propagates for redelivery", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)
		handler.directory = failingDirectory{}

		err := handler.Handle(ctx, marshal(t, validMessage()))
		if !errors.Is(err, errDirectoryDown) {
			t.Fatalf("Handle error = %v, want wrapped directory failure", err)
		}
	})

	t.Run("store failure propagates for redelivery", func(t *testing.T) {
		handler, store, producer := newTestHandler(t)
		store.err = errors.New("db down")

		if err := handler.Handle(ctx, marshal(t, validMessage())); err == nil {
			t.Fatal("Handle must fail when the store fails")
		}
		if len(producer.events) != 0 {
			t.Error("no event must be published when the store fails")
		}
	})

	t.Run("publish failure propagates for redelivery", func(t *testing.T) {
		handler, _, producer := newTestHandler(t)
		producer.err = errors.New("broker down")

		if err := handler.Handle(ctx, marshal(t, validMessage())); err == nil {
			t.Fatal("Handle must fail when publishing fails")
		}
	})
}

package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mealflow/order-intake/internal/assembly"
	"github.com/mealflow/order-intake/internal/catalog"
	"github.com/mealflow/order-intake/internal/directory"
	"github.com/mealflow/order-intake/internal/domain"
	"github.com/mealflow/order-intake/internal/gateway"
)

// SubmissionMessage is the wire form of one order submission as consumed
// from the submissions topic.
type SubmissionMessage struct {
	RequestID     string                 `json:"request_id"`
	CustomerID    string                 `json:"customer_id"`
	RestaurantID  string                 `json:"restaurant_id"`
	AddressID     string                 `json:"address_id"`
	Lines         []assembly.LineRequest `json:"lines"`
	Payment       *domain.PaymentRecord  `json:"payment"`
	ShippingCents *int64                 `json:"shipping_cents,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
}

// OrderStore persists accepted orders.
type OrderStore interface {
	Save(ctx context.Context, order *domain.Order) error
}

// Publisher emits the order-placed event after persistence.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Handler consumes submission messages and drives them through the gateway.
// Rejections are terminal: the message is logged and committed so it is not
// redelivered. Infrastructure failures (directory, store, broker) propagate
// and leave the offset uncommitted.
type Handler struct {
	gateway   *gateway.Gateway
	directory directory.Directory
	store     OrderStore
	producer  Publisher
	logger    *slog.Logger
}

func NewHandler(gw *gateway.Gateway, dir directory.Directory, store OrderStore, producer Publisher, logger *slog.Logger) *Handler {
	return &Handler{
		gateway:   gw,
		directory: dir,
		store:     store,
		producer:  producer,
		logger:    logger,
	}
}

// Handle processes one raw submission payload.
func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var msg SubmissionMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		// A payload that does not parse will never parse; drop it.
		h.logger.Error("discarding malformed submission", "error", err)
		return nil
	}

	sub, err := h.resolve(ctx, msg)
	if err != nil {
		return fmt.Errorf("resolve submission %s: %w", msg.RequestID, err)
	}

	order, err := h.gateway.Submit(ctx, sub)
	if err != nil {
		// An unknown food item is as final as a taxonomy rejection;
		// redelivering the message cannot make the item exist.
		if domain.IsRejection(err) || errors.Is(err, catalog.ErrNotFound) {
			h.logger.Info("submission rejected",
				"request_id", msg.RequestID,
				"customer_id", msg.CustomerID,
				"reason", err.Error(),
			)
			return nil
		}
		return fmt.Errorf("submit %s: %w", msg.RequestID, err)
	}

	if err := h.store.Save(ctx, order); err != nil {
		return fmt.Errorf("save order for %s: %w", msg.RequestID, err)
	}

	event := domain.OrderPlacedEvent{
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		Items:        order.Items,
		TotalCents:   order.TotalCents,
		Timestamp:    time.Now().UTC(),
	}
	if err := h.producer.Publish(ctx, order.ID, event); err != nil {
		return fmt.Errorf("publish order placed for %s: %w", msg.RequestID, err)
	}

	h.logger.Info("order placed",
		"request_id", msg.RequestID,
		"order_id", order.ID,
		"total_cents", order.TotalCents,
	)
	return nil
}

// resolve looks up the entities a submission references. Unknown ids map to
// nil entities so the gateway rejects them through its own stage sequence;
// any other directory failure is infrastructure and bubbles up.
func (h *Handler) resolve(ctx context.Context, msg SubmissionMessage) (gateway.Submission, error) {
	sub := gateway.Submission{
		Lines:   msg.Lines,
		Payment: msg.Payment,
		Notes:   msg.Notes,
	}

	if msg.CustomerID != "" {
		customer, err := h.directory.Customer(ctx, msg.CustomerID)
		if err != nil && !errors.Is(err, directory.ErrNotFound) {
			return gateway.Submission{}, fmt.Errorf("look up customer: %w", err)
		}
		sub.Customer = customer
	}

	if msg.RestaurantID != "" {
		restaurant, err := h.directory.Restaurant(ctx, msg.RestaurantID)
		if err != nil && !errors.Is(err, directory.ErrNotFound) {
			return gateway.Submission{}, fmt.Errorf("look up restaurant: %w", err)
		}
		sub.Restaurant = restaurant
	}

	if msg.AddressID != "" {
		address, err := h.directory.Address(ctx, msg.AddressID)
		if err != nil && !errors.Is(err, directory.ErrNotFound) {
			return gateway.Submission{}, fmt.Errorf("look up address: %w", err)
		}
		sub.Address = address
	}

	switch {
	case msg.ShippingCents != nil:
		sub.ShippingCents = *msg.ShippingCents
	case sub.Restaurant != nil:
		sub.ShippingCents = sub.Restaurant.ShippingCents
	}

	return sub, nil
}

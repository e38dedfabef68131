package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealflow/order-intake/internal/domain"
)

type Stage string

const (
	StageReceived Stage = "received"
	StageAccepted Stage = "accepted"
	StageRejected Stage = "rejected"
)

// Event is one structured audit entry for a submission.
type Event struct {
	ID           string    `json:"id"`
	Stage        Stage     `json:"stage"`
	CustomerID   string    `json:"customer_id,omitempty"`
	RestaurantID string    `json:"restaurant_id,omitempty"`
	OrderID      string    `json:"order_id,omitempty"`
	Lines        int       `json:"lines,omitempty"`
	TotalCents   int64     `json:"total_cents,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Sink receives audit events, fire-and-forget: implementations swallow and
// log their own failures, which must never fail the submission being audited.
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// NewEvent stamps a fresh event for the given stage.
func NewEvent(stage Stage) Event {
	return Event{
		ID:        uuid.New().String(),
		Stage:     stage,
		Timestamp: time.Now().UTC(),
	}
}

// Rejected builds a rejection event carrying the error kind as reason.
func Rejected(customer *domain.Customer, err error) Event {
	ev := NewEvent(StageRejected)
	if customer != nil {
		ev.CustomerID = customer.ID
	}
	if err != nil {
		ev.Reason = err.Error()
	}
	return ev
}

// Noop discards every event.
type Noop struct{}

func (Noop) Record(context.Context, Event) {}

// Fanout forwards each event to every wrapped sink.
type Fanout []Sink

func (f Fanout) Record(ctx context.Context, ev Event) {
	for _, s := range f {
		s.Record(ctx, ev)
	}
}

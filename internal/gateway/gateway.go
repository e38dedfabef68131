package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mealflow/order-intake/internal/assembly"
	"github.com/mealflow/order-intake/internal/audit"
	"github.com/mealflow/order-intake/internal/domain"
	"github.com/mealflow/order-intake/internal/ratelimit"
)

const (
	// MaxSubmissions caps successful submissions per customer.
	MaxSubmissions = 5
	// MaxLineItems caps the number of lines in one submission.
	MaxLineItems = 50
	// MaxQuantity caps the requested quantity of a single line.
	MaxQuantity = 10
)

var meter = otel.Meter("gateway")

// Submission is one order request as it arrives at the gateway.
type Submission struct {
	Customer      *domain.Customer
	Restaurant    *domain.Restaurant
	Address       *domain.Address
	Lines         []assembly.LineRequest
	Payment       *domain.PaymentRecord
	ShippingCents int64
	Notes         string
}

// Gateway is the policy-enforcing entry point in front of the assembler.
// Every submission walks the same stage sequence: authenticate, validate
// shape, claim a rate slot, delegate to the assembler, record success. The
// first failing stage rejects the submission; later stages never run.
type Gateway struct {
	assembler *assembly.Assembler
	window    ratelimit.Window
	sink      audit.Sink
	logger    *slog.Logger

	accepted metric.Int64Counter
	rejected metric.Int64Counter
}

func New(assembler *assembly.Assembler, window ratelimit.Window, sink audit.Sink, logger *slog.Logger) *Gateway {
	accepted, _ := meter.Int64Counter("intake.submissions.accepted",
		metric.WithDescription("Submissions accepted by the gateway"))
	rejected, _ := meter.Int64Counter("intake.submissions.rejected",
		metric.WithDescription("Submissions rejected by the gateway"))

	return &Gateway{
		assembler: assembler,
		window:    window,
		sink:      sink,
		logger:    logger,
		accepted:  accepted,
		rejected:  rejected,
	}
}

// Submit runs one submission through the gateway. On success the returned
// order is fully priced and the customer's rate count has been incremented;
// on failure the count is untouched and the error kind names the reason.
func (g *Gateway) Submit(ctx context.Context, sub Submission) (*domain.Order, error) {
	received := audit.NewEvent(audit.StageReceived)
	if sub.Customer != nil {
		received.CustomerID = sub.Customer.ID
	}
	if sub.Restaurant != nil {
		received.RestaurantID = sub.Restaurant.ID
	}
	received.Lines = len(sub.Lines)
	g.sink.Record(ctx, received)

	if err := g.authenticate(sub.Customer); err != nil {
		return nil, g.reject(ctx, sub, err)
	}

	if err := validateShape(sub); err != nil {
		return nil, g.reject(ctx, sub, err)
	}

	reservation, err := g.window.Reserve(ctx, sub.Customer.ID, MaxSubmissions)
	if err != nil {
		return nil, g.reject(ctx, sub, err)
	}

	order, err := g.assembler.Assemble(ctx, assembly.Input{
		Customer:      sub.Customer,
		Restaurant:    sub.Restaurant,
		Address:       sub.Address,
		Lines:         sub.Lines,
		Payment:       sub.Payment,
		ShippingCents: sub.ShippingCents,
		Notes:         sub.Notes,
	})
	if err != nil {
		if relErr := reservation.Release(ctx); relErr != nil {
			g.logger.Error("failed to release rate slot", "error", relErr, "customer_id", sub.Customer.ID)
		}
		return nil, g.reject(ctx, sub, err)
	}

	// The slot is counted only now, after delegation succeeded; a failed
	// assembly never burns one of the customer's submissions.
	if err := reservation.Commit(ctx); err != nil {
		g.logger.Error("failed to record submission", "error", err, "customer_id", sub.Customer.ID)
	}

	acceptedEv := audit.NewEvent(audit.StageAccepted)
	acceptedEv.CustomerID = order.CustomerID
	acceptedEv.RestaurantID = order.RestaurantID
	acceptedEv.Lines = len(order.Items)
	acceptedEv.TotalCents = order.TotalCents
	g.sink.Record(ctx, acceptedEv)

	g.accepted.Add(ctx, 1)
	g.logger.Info("submission accepted",
		"customer_id", order.CustomerID,
		"restaurant_id", order.RestaurantID,
		"lines", len(order.Items),
		"total_cents", order.TotalCents,
	)

	return order, nil
}

func (g *Gateway) authenticate(customer *domain.Customer) error {
	if customer == nil {
		return domain.ErrNotAuthenticated
	}
	if customer.Role != domain.RoleCustomer {
		return fmt.Errorf("%w: role %q", domain.ErrForbiddenRole, customer.Role)
	}
	return nil
}

func validateShape(sub Submission) error {
	if sub.Restaurant == nil {
		return domain.ErrMissingRestaurant
	}
	if sub.Address == nil {
		return domain.ErrMissingAddress
	}
	if len(sub.Lines) == 0 {
		return domain.ErrEmptyOrder
	}
	if len(sub.Lines) > MaxLineItems {
		return fmt.Errorf("%w: got %d", domain.ErrTooManyItems, len(sub.Lines))
	}
	for _, line := range sub.Lines {
		if line.Quantity > MaxQuantity {
			return fmt.Errorf("%w: food item %s requested %d", domain.ErrQuantityTooHigh, line.FoodItemID, line.Quantity)
		}
	}
	return nil
}

func (g *Gateway) reject(ctx context.Context, sub Submission, err error) error {
	g.sink.Record(ctx, audit.Rejected(sub.Customer, err))
	g.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason(err))))
	g.logger.Info("submission rejected", "reason", err.Error())
	return err
}

// reason maps an error to a low-cardinality metric label.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, domain.ErrForbiddenRole):
		return "forbidden_role"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrTooManyItems), errors.Is(err, domain.ErrQuantityTooHigh):
		return "shape_limit"
	case domain.IsRejection(err):
		return "invalid"
	default:
		return "error"
	}
}

// ResetRateLimits clears every customer's submission count. Administrative
// operation, bypasses the submission state machine.
func (g *Gateway) ResetRateLimits(ctx context.Context) error {
	return g.window.Reset(ctx)
}

// RateLimitCounts returns the current per-customer submission counts.
func (g *Gateway) RateLimitCounts(ctx context.Context) (map[string]int, error) {
	return g.window.Counts(ctx)
}

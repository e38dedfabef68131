package payment

import (
	"fmt"
	"strings"

	"github.com/mealflow/order-intake/internal/domain"
)

// Authorizer decides whether an order may proceed with the given payment
// record. Implementations validate presence and shape only; no external
// charge is performed here.
type Authorizer interface {
	Authorize(totalCents int64, rec *domain.PaymentRecord) error
}

// ForMethod resolves the authorizer for a payment method tag. Adding a
// method means adding a case here plus its Authorizer; callers stay
// untouched.
func ForMethod(method domain.PaymentMethod) (Authorizer, error) {
	switch method {
	case domain.PaymentCash:
		return cashAuthorizer{}, nil
	case domain.PaymentCard:
		return cardAuthorizer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedPaymentMethod, method)
	}
}

// cashAuthorizer accepts unconditionally.
type cashAuthorizer struct{}

func (cashAuthorizer) Authorize(int64, *domain.PaymentRecord) error {
	return nil
}

// cardAuthorizer requires every card field to be present and non-blank.
// Card data is validated here and then discarded, never persisted.
type cardAuthorizer struct{}

func (cardAuthorizer) Authorize(_ int64, rec *domain.PaymentRecord) error {
	if rec == nil {
		return domain.ErrPaymentRequired
	}

	fields := []struct {
		name  string
		value string
	}{
		{"card number", rec.CardNumber},
		{"cardholder name", rec.CardholderName},
		{"expiry", rec.Expiry},
		{"cvv", rec.CVV},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", domain.ErrMissingPaymentField, f.name)
		}
	}
	return nil
}

package domain

import "errors"

// Error kinds reported by the intake pipeline. Each condition maps to exactly
// one kind, checked with errors.Is; upper layers propagate them unchanged and
// the surrounding service decides how to present them.
var (
	ErrNotAuthenticated         = errors.New("customer not authenticated")
	ErrForbiddenRole            = errors.New("only customers can place orders")
	ErrMissingCustomer          = errors.New("customer is required")
	ErrMissingRestaurant        = errors.New("restaurant is required")
	ErrMissingAddress           = errors.New("delivery address is required")
	ErrEmptyOrder               = errors.New("order must contain at least one item")
	ErrTooManyItems             = errors.New("order cannot contain more than 50 items")
	ErrQuantityTooHigh          = errors.New("maximum quantity per item is 10")
	ErrRateLimited              = errors.New("rate limit exceeded")
	ErrUnknownExtra             = errors.New("extra is not available for this food item")
	ErrInvalidExtras            = errors.New("one or more selected extras are not available")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrMissingPaymentField      = errors.New("missing payment field")
	ErrPaymentRequired          = errors.New("payment information is required")
)

// IsRejection reports whether err is one of the intake error kinds, as
// opposed to an infrastructure failure. Rejections are final; infrastructure
// failures may be retried.
func IsRejection(err error) bool {
	for _, kind := range []error{
		ErrNotAuthenticated, ErrForbiddenRole, ErrMissingCustomer,
		ErrMissingRestaurant, ErrMissingAddress, ErrEmptyOrder,
		ErrTooManyItems, ErrQuantityTooHigh, ErrRateLimited,
		ErrUnknownExtra, ErrInvalidExtras, ErrUnsupportedPaymentMethod,
		ErrMissingPaymentField, ErrPaymentRequired,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

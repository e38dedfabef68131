package ratelimit

import "context"

// Window tracks recent successful submissions per customer. Reserve
// atomically claims a slot while the submission is in flight, so two
// concurrent submissions from one customer can never both slip past the
// limit on a stale count. Counts never decay; they grow until Reset.
type Window interface {
	// Reserve claims a slot for the customer, failing with
	// domain.ErrRateLimited when the window is full. The reservation must
	// be finished exactly once: Commit counts the submission as successful,
	// Release returns the slot without counting it.
	Reserve(ctx context.Context, customerID string, limit int) (Reservation, error)

	// Counts returns the committed count per customer.
	Counts(ctx context.Context) (map[string]int, error)

	// Reset clears all counters. Administrative use only; it is not
	// synchronized with in-flight submissions, so a reservation straddling
	// a reset may be dropped rather than counted.
	Reset(ctx context.Context) error
}

type Reservation interface {
	Commit(ctx context.Context) error
	Release(ctx context.Context) error
}

package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"github.com/mealflow/order-intake/internal/domain"
)

// MemoryWindow is the in-process rate window. The outer mutex only guards
// the entry map; checking and claiming a slot locks the per-customer entry,
// so submissions from different customers never contend with each other.
type MemoryWindow struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu        sync.Mutex
	committed int
	reserved  int
}

func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{entries: make(map[string]*entry)}
}

func (w *MemoryWindow) entryFor(customerID string) *entry {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entries[customerID]
	if !ok {
		e = &entry{}
		w.entries[customerID] = e
	}
	return e
}

func (w *MemoryWindow) Reserve(_ context.Context, customerID string, limit int) (Reservation, error) {
	e := w.entryFor(customerID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committed+e.reserved >= limit {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrRateLimited, customerID)
	}
	e.reserved++
	return &memoryReservation{entry: e}, nil
}

func (w *MemoryWindow) Counts(context.Context) (map[string]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	counts := make(map[string]int, len(w.entries))
	for id, e := range w.entries {
		e.mu.Lock()
		if e.committed > 0 {
			counts[id] = e.committed
		}
		e.mu.Unlock()
	}
	return counts, nil
}

// Reset discards every entry. Reservations taken before the reset still
// point at the discarded entries, so committing one afterwards leaves no
// trace in Counts.
func (w *MemoryWindow) Reset(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = make(map[string]*entry)
	return nil
}

type memoryReservation struct {
	entry *entry
	done  bool
}

func (r *memoryReservation) Commit(context.Context) error {
	r.entry.mu.Lock()
	defer r.entry.mu.Unlock()
	if r.done {
		return nil
	}
	r.done = true
	r.entry.reserved--
	r.entry.committed++
	return nil
}

func (r *memoryReservation) Release(context.Context) error {
	r.entry.mu.Lock()
	defer r.entry.mu.Unlock()
	if r.done {
		return nil
	}
	r.done = true
	r.entry.reserved--
	return nil
}

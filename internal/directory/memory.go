package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mealflow/order-intake/internal/domain"
)

// Memory is an in-process directory for tests and seeding.
type Memory struct {
	mu          sync.RWMutex
	customers   map[string]domain.Customer
	restaurants map[string]domain.Restaurant
	addresses   map[string]domain.Address
}

func NewMemory() *Memory {
	return &Memory{
		customers:   make(map[string]domain.Customer),
		restaurants: make(map[string]domain.Restaurant),
		addresses:   make(map[string]domain.Address),
	}
}

func (m *Memory) AddCustomer(c domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
}

func (m *Memory) AddRestaurant(r domain.Restaurant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants[r.ID] = r
}

func (m *Memory) AddAddress(a domain.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[a.ID] = a
}

func (m *Memory) Customer(_ context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (m *Memory) Restaurant(_ context.Context, id string) (*domain.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
	}
	return &r, nil
}

func (m *Memory) Address(_ context.Context, id string) (*domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.addresses[id]
	if !ok {
		return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
	}
	return &a, nil
}

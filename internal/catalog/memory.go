package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/mealflow/order-intake/internal/domain"
)

// Memory is an in-process catalog used in tests and seeding.
type Memory struct {
	mu    sync.RWMutex
	items map[string]domain.FoodItem
}

func NewMemory(items ...domain.FoodItem) *Memory {
	m := &Memory{items: make(map[string]domain.FoodItem, len(items))}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *Memory) Add(item domain.FoodItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *Memory) FoodItem(_ context.Context, id string) (*domain.FoodItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	// Copy so callers cannot mutate the shared extras map.
	out := item
	out.Extras = make(map[string]int64, len(item.Extras))
	for name, price := range item.Extras {
		out.Extras[name] = price
	}
	return &out, nil
}

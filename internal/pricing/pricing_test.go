package pricing

import (
	"errors"
	"testing"

	"github.com/mealflow/order-intake/internal/domain"
)

func burger() *domain.FoodItem {
	return &domain.FoodItem{
		ID:             "item-1",
		Name:           "ItemName",
		BasePriceCents: 1000,
		Extras: map[string]int64{
			"Cheese": 150,
			"Bacon":  200,
		},
	}
}

func TestCompose(t *testing.T) {
	t.Run("base price and all extras", func(t *testing.T) {
		pc, err := Compose(burger(), []string{"Cheese", "Bacon"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pc.UnitPriceCents != 1350 {
			t.Errorf("expected unit price 1350, got %d", pc.UnitPriceCents)
		}
		if pc.Description != "ItemName, Cheese, Bacon" {
			t.Errorf("unexpected description: %q", pc.Description)
		}
	})

	t.Run("no extras returns base item", func(t *testing.T) {
		pc, err := Compose(burger(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pc.UnitPriceCents != 1000 {
			t.Errorf("expected unit price 1000, got %d", pc.UnitPriceCents)
		}
		if pc.Description != "ItemName" {
			t.Errorf("unexpected description: %q", pc.Description)
		}
	})

	t.Run("blank selections are skipped", func(t *testing.T) {
		pc, err := Compose(burger(), []string{"", "Cheese", "  ", "Bacon", ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pc.UnitPriceCents != 1350 {
			t.Errorf("expected unit price 1350, got %d", pc.UnitPriceCents)
		}
		if pc.Description != "ItemName, Cheese, Bacon" {
			t.Errorf("unexpected description: %q", pc.Description)
		}
	})

	t.Run("unknown extra fails", func(t *testing.T) {
		_, err := Compose(burger(), []string{"Cheese", "Truffle"})
		if !errors.Is(err, domain.ErrUnknownExtra) {
			t.Errorf("expected ErrUnknownExtra, got %v", err)
		}
	})

	t.Run("case sensitive matching", func(t *testing.T) {
		_, err := Compose(burger(), []string{"cheese"})
		if !errors.Is(err, domain.ErrUnknownExtra) {
			t.Errorf("expected ErrUnknownExtra, got %v", err)
		}
	})

	t.Run("nil item fails", func(t *testing.T) {
		if _, err := Compose(nil, nil); err == nil {
			t.Error("expected error for nil item")
		}
	})

	t.Run("deterministic over repeated calls", func(t *testing.T) {
		first, err := Compose(burger(), []string{"Bacon", "Cheese"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Compose(burger(), []string{"Bacon", "Cheese"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.UnitPriceCents != second.UnitPriceCents || first.Description != second.Description {
			t.Errorf("expected identical results, got %+v and %+v", first, second)
		}
		if first.Description != "ItemName, Bacon, Cheese" {
			t.Errorf("description must follow selection order, got %q", first.Description)
		}
	})
}

func TestValidateSelections(t *testing.T) {
	noExtras := &domain.FoodItem{ID: "item-2", Name: "Plain", BasePriceCents: 500}

	tests := []struct {
		name       string
		item       *domain.FoodItem
		selections []string
		want       bool
	}{
		{"all known", burger(), []string{"Cheese", "Bacon"}, true},
		{"empty selections", burger(), nil, true},
		{"blanks only", burger(), []string{"", "  "}, true},
		{"unknown extra", burger(), []string{"Cheese", "Truffle"}, false},
		{"item without extras, none selected", noExtras, nil, true},
		{"item without extras, extra selected", noExtras, []string{"Cheese"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSelections(tt.item, tt.selections); got != tt.want {
				t.Errorf("ValidateSelections() = %v, want %v", got, tt.want)
			}
		})
	}
}

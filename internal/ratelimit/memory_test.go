package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mealflow/order-intake/internal/domain"
)

func TestMemoryWindowReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("limit admits exactly limit commits", func(t *testing.T) {
		w := NewMemoryWindow()

		for i := 0; i < 5; i++ {
			res, err := w.Reserve(ctx, "cust-1", 5)
			if err != nil {
				t.Fatalf("submission %d: unexpected error: %v", i+1, err)
			}
			if err := res.Commit(ctx); err != nil {
				t.Fatalf("submission %d: commit failed: %v", i+1, err)
			}
		}

		_, err := w.Reserve(ctx, "cust-1", 5)
		if !errors.Is(err, domain.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited on 6th reserve, got %v", err)
		}
	})

	t.Run("released slots are not counted", func(t *testing.T) {
		w := NewMemoryWindow()

		for i := 0; i < 10; i++ {
			res, err := w.Reserve(ctx, "cust-1", 5)
			if err != nil {
				t.Fatalf("reserve %d: unexpected error: %v", i+1, err)
			}
			if err := res.Release(ctx); err != nil {
				t.Fatalf("release %d: unexpected error: %v", i+1, err)
			}
		}

		res, err := w.Reserve(ctx, "cust-1", 5)
		if err != nil {
			t.Fatalf("expected slot to be free after releases, got %v", err)
		}
		_ = res.Commit(ctx)

		counts, _ := w.Counts(ctx)
		if counts["cust-1"] != 1 {
			t.Errorf("expected count 1, got %d", counts["cust-1"])
		}
	})

	t.Run("customers are independent", func(t *testing.T) {
		w := NewMemoryWindow()

		for i := 0; i < 5; i++ {
			res, _ := w.Reserve(ctx, "cust-1", 5)
			_ = res.Commit(ctx)
		}

		if _, err := w.Reserve(ctx, "cust-2", 5); err != nil {
			t.Errorf("other customer must not be limited, got %v", err)
		}
	})

	t.Run("reset clears all counters", func(t *testing.T) {
		w := NewMemoryWindow()
		for i := 0; i < 5; i++ {
			res, _ := w.Reserve(ctx, "cust-1", 5)
			_ = res.Commit(ctx)
		}

		if err := w.Reset(ctx); err != nil {
			t.Fatalf("reset failed: %v", err)
		}

		if _, err := w.Reserve(ctx, "cust-1", 5); err != nil {
			t.Errorf("expected reserve to succeed after reset, got %v", err)
		}
		counts, _ := w.Counts(ctx)
		if len(counts) != 0 && counts["cust-1"] > 1 {
			t.Errorf("unexpected counts after reset: %v", counts)
		}
	})

	t.Run("reset drops in-flight reservations", func(t *testing.T) {
		w := NewMemoryWindow()

		res, err := w.Reserve(ctx, "cust-1", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Reset(ctx); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if err := res.Commit(ctx); err != nil {
			t.Fatalf("commit failed: %v", err)
		}

		counts, _ := w.Counts(ctx)
		if len(counts) != 0 {
			t.Errorf("commit after reset must not be counted, got %v", counts)
		}
	})
}

func TestMemoryWindowConcurrent(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWindow()

	const attempts = 100
	var admitted atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := w.Reserve(ctx, "cust-1", 5)
			if err != nil {
				return
			}
			admitted.Add(1)
			_ = res.Commit(ctx)
		}()
	}
	wg.Wait()

	if admitted.Load() != 5 {
		t.Errorf("expected exactly 5 admissions, got %d", admitted.Load())
	}

	counts, _ := w.Counts(ctx)
	if counts["cust-1"] != 5 {
		t.Errorf("expected committed count 5, got %d", counts["cust-1"])
	}
}

func TestMemoryWindowDoubleFinish(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWindow()

	res, err := w.Reserve(ctx, "cust-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = res.Commit(ctx)
	_ = res.Commit(ctx)
	_ = res.Release(ctx)

	counts, _ := w.Counts(ctx)
	if counts["cust-1"] != 1 {
		t.Errorf("finishing twice must count once, got %d", counts["cust-1"])
	}
}

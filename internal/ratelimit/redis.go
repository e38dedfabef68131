package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mealflow/order-intake/internal/domain"
)

const (
	slotPrefix      = "intake:rate:slots:"
	committedPrefix = "intake:rate:committed:"
)

// RedisWindow shares the rate window across intake instances. A slot is
// claimed with an atomic INCR on the customer's slot counter and handed back
// with DECR on release; commits are tallied on a separate counter so Counts
// reports only successful submissions, never slots still in flight. Keys
// carry no TTL: counts do not decay, matching the in-memory window.
type RedisWindow struct {
	rdb *redis.Client
}

func NewRedisWindow(rdb *redis.Client) *RedisWindow {
	return &RedisWindow{rdb: rdb}
}

func (w *RedisWindow) Reserve(ctx context.Context, customerID string, limit int) (Reservation, error) {
	key := slotPrefix + customerID

	n, err := w.rdb.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve rate slot: %w", err)
	}
	if n > int64(limit) {
		if err := w.rdb.Decr(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("return rate slot: %w", err)
		}
		return nil, fmt.Errorf("%w: customer %s", domain.ErrRateLimited, customerID)
	}
	return &redisReservation{rdb: w.rdb, customerID: customerID}, nil
}

func (w *RedisWindow) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)

	iter := w.rdb.Scan(ctx, 0, committedPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := w.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("parse count for %s: %w", key, err)
		}
		if n > 0 {
			counts[strings.TrimPrefix(key, committedPrefix)] = n
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (w *RedisWindow) Reset(ctx context.Context) error {
	for _, prefix := range []string{slotPrefix, committedPrefix} {
		iter := w.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			if err := w.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}

type redisReservation struct {
	rdb        *redis.Client
	customerID string
	done       bool
}

// Commit keeps the claimed slot, which the slot counter already includes
// from Reserve, and tallies the submission on the committed counter.
func (r *redisReservation) Commit(ctx context.Context) error {
	if r.done {
		return nil
	}
	r.done = true
	return r.rdb.Incr(ctx, committedPrefix+r.customerID).Err()
}

func (r *redisReservation) Release(ctx context.Context) error {
	if r.done {
		return nil
	}
	r.done = true
	return r.rdb.Decr(ctx, slotPrefix+r.customerID).Err()
}
